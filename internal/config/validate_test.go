package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Operator)
		wantErr string
	}{
		{"defaults are valid", func(*Operator) {}, ""},
		{"memory backend", func(o *Operator) { o.Registry.Backend = RegistryMemory }, ""},
		{"missing namespace", func(o *Operator) { o.Namespace = "" }, "namespace is required"},
		{"zero concurrency", func(o *Operator) { o.RateLimit.MaxConcurrentCalls = 0 }, "maxConcurrentCalls"},
		{"zero rate", func(o *Operator) { o.RateLimit.RequestsPerSecond = 0 }, "requestsPerSecond"},
		{"unknown backend", func(o *Operator) { o.Registry.Backend = "etcd" }, "unknown backend"},
		{"s3 without bucket", func(o *Operator) { o.Registry.Backend = RegistryS3 }, "s3 bucket is required"},
		{"s3 without key", func(o *Operator) {
			o.Registry.Backend = RegistryS3
			o.Registry.S3.Bucket = "b"
			o.Registry.S3.Key = ""
		}, "s3 key is required"},
		{"zero gc interval", func(o *Operator) { o.Intervals.GC = 0 }, "gc must be positive"},
		{"max below base", func(o *Operator) {
			o.Intervals.RetryBaseDelay = time.Minute
			o.Intervals.RetryMaxDelay = time.Second
		}, "retryMaxDelay"},
		{"zero call timeout", func(o *Operator) { o.Timeouts.Call = 0 }, "timeouts must be positive"},
		{"pass below call", func(o *Operator) {
			o.Timeouts.Call = time.Minute
			o.Timeouts.Pass = time.Second
		}, "pass timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
