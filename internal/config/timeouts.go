package config

import (
	"os"
	"strconv"
	"time"
)

// applyEnv overrides fields from environment variables.
//
// Environment Variables:
//   - OS_CLOUD, OS_CLIENT_CONFIG_FILE
//   - WATCH_NAMESPACE, OPERATOR_NAMESPACE
//   - OPENSTACK_MAX_CONCURRENT_CALLS (default: 10)
//   - OPENSTACK_REQUESTS_PER_SECOND (default: 20)
//   - REGISTRY_BACKEND (default: configmap)
//   - REGISTRY_S3_BUCKET, REGISTRY_S3_KEY, REGISTRY_S3_ENDPOINT, REGISTRY_S3_REGION
//   - REGISTRY_S3_CREATE_BUCKET (default: false)
//   - AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
//   - RESYNC_INTERVAL (default: 300s)
//   - GC_INTERVAL (default: 300s)
//   - IMAGE_POLL_INTERVAL (default: 30s)
//   - RETRY_BASE_DELAY (default: 5s)
//   - RETRY_MAX_DELAY (default: 5m)
//   - OSO_TIMEOUT_CALL (default: 60s)
//   - OSO_TIMEOUT_PASS (default: 10m)
func (o *Operator) applyEnv() {
	o.Cloud.Name = parseString("OS_CLOUD", o.Cloud.Name)
	o.Cloud.ConfigFile = parseString("OS_CLIENT_CONFIG_FILE", o.Cloud.ConfigFile)

	// An empty WATCH_NAMESPACE is meaningful, so presence is checked instead of value.
	if v, ok := os.LookupEnv("WATCH_NAMESPACE"); ok {
		o.WatchNamespace = v
	}
	o.Namespace = parseString("OPERATOR_NAMESPACE", o.Namespace)

	o.RateLimit.MaxConcurrentCalls = parseInt("OPENSTACK_MAX_CONCURRENT_CALLS", o.RateLimit.MaxConcurrentCalls)
	o.RateLimit.RequestsPerSecond = parseFloat("OPENSTACK_REQUESTS_PER_SECOND", o.RateLimit.RequestsPerSecond)

	o.Registry.Backend = parseString("REGISTRY_BACKEND", o.Registry.Backend)
	o.Registry.S3.Bucket = parseString("REGISTRY_S3_BUCKET", o.Registry.S3.Bucket)
	o.Registry.S3.Key = parseString("REGISTRY_S3_KEY", o.Registry.S3.Key)
	o.Registry.S3.Endpoint = parseString("REGISTRY_S3_ENDPOINT", o.Registry.S3.Endpoint)
	o.Registry.S3.Region = parseString("REGISTRY_S3_REGION", o.Registry.S3.Region)
	o.Registry.S3.CreateBucket = parseBool("REGISTRY_S3_CREATE_BUCKET", o.Registry.S3.CreateBucket)
	o.Registry.S3.AccessKey = parseString("AWS_ACCESS_KEY_ID", o.Registry.S3.AccessKey)
	o.Registry.S3.SecretKey = parseString("AWS_SECRET_ACCESS_KEY", o.Registry.S3.SecretKey)

	o.Intervals.Resync = parseDuration("RESYNC_INTERVAL", o.Intervals.Resync)
	o.Intervals.GC = parseDuration("GC_INTERVAL", o.Intervals.GC)
	o.Intervals.ImagePoll = parseDuration("IMAGE_POLL_INTERVAL", o.Intervals.ImagePoll)
	o.Intervals.RetryBaseDelay = parseDuration("RETRY_BASE_DELAY", o.Intervals.RetryBaseDelay)
	o.Intervals.RetryMaxDelay = parseDuration("RETRY_MAX_DELAY", o.Intervals.RetryMaxDelay)

	o.Timeouts.Call = parseDuration("OSO_TIMEOUT_CALL", o.Timeouts.Call)
	o.Timeouts.Pass = parseDuration("OSO_TIMEOUT_PASS", o.Timeouts.Pass)
}

func parseString(envVar string, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// Plain integers are read as seconds. If the variable is not set or
// parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}

func parseFloat(envVar string, defaultVal float64) float64 {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}

	return f
}

func parseBool(envVar string, defaultVal bool) bool {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}

	return b
}
