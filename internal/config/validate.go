package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (o *Operator) Validate() error {
	if o.Namespace == "" {
		return errors.New("operator namespace is required")
	}

	if o.RateLimit.MaxConcurrentCalls < 1 {
		return fmt.Errorf("maxConcurrentCalls must be at least 1, got %d", o.RateLimit.MaxConcurrentCalls)
	}
	if o.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("requestsPerSecond must be positive, got %v", o.RateLimit.RequestsPerSecond)
	}

	if err := o.validateRegistry(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	if err := o.validateIntervals(); err != nil {
		return fmt.Errorf("interval validation failed: %w", err)
	}

	if o.Timeouts.Call <= 0 || o.Timeouts.Pass <= 0 {
		return fmt.Errorf("timeouts must be positive, got call=%s pass=%s", o.Timeouts.Call, o.Timeouts.Pass)
	}
	if o.Timeouts.Pass < o.Timeouts.Call {
		return fmt.Errorf("pass timeout (%s) must not be smaller than call timeout (%s)", o.Timeouts.Pass, o.Timeouts.Call)
	}

	return nil
}

func (o *Operator) validateRegistry() error {
	switch o.Registry.Backend {
	case RegistryConfigMap, RegistryMemory:
		return nil
	case RegistryS3:
		if o.Registry.S3.Bucket == "" {
			return errors.New("s3 bucket is required for the s3 backend")
		}
		if o.Registry.S3.Key == "" {
			return errors.New("s3 key is required for the s3 backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q: must be one of %s, %s, %s",
			o.Registry.Backend, RegistryConfigMap, RegistryS3, RegistryMemory)
	}
}

func (o *Operator) validateIntervals() error {
	iv := o.Intervals
	for name, d := range map[string]int64{
		"resync":         int64(iv.Resync),
		"gc":             int64(iv.GC),
		"imagePoll":      int64(iv.ImagePoll),
		"retryBaseDelay": int64(iv.RetryBaseDelay),
		"retryMaxDelay":  int64(iv.RetryMaxDelay),
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if iv.RetryMaxDelay < iv.RetryBaseDelay {
		return fmt.Errorf("retryMaxDelay (%s) must not be smaller than retryBaseDelay (%s)", iv.RetryMaxDelay, iv.RetryBaseDelay)
	}
	return nil
}
