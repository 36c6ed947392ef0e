package config

import "time"

// Registry backends.
const (
	RegistryConfigMap = "configmap"
	RegistryS3        = "s3"
	RegistryMemory    = "memory"
)

// RegistryConfigMapName is the ConfigMap holding the tracking records.
const RegistryConfigMapName = "openstack-operator-managed-resources"

// Operator is the complete operator configuration.
type Operator struct {
	Cloud CloudConfig `yaml:"cloud"`

	// WatchNamespace limits OpenstackProject watches; empty watches all namespaces.
	WatchNamespace string `yaml:"watchNamespace"`

	// Namespace is where the operator runs and keeps its registry ConfigMap.
	Namespace string `yaml:"namespace"`

	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Registry  RegistryConfig  `yaml:"registry"`
	Intervals Intervals       `yaml:"intervals"`
	Timeouts  Timeouts        `yaml:"timeouts"`
}

// CloudConfig locates OpenStack credentials in clouds.yaml.
type CloudConfig struct {
	Name       string `yaml:"name"`
	ConfigFile string `yaml:"configFile"`
}

// RateLimitConfig bounds calls to the OpenStack APIs.
type RateLimitConfig struct {
	MaxConcurrentCalls int     `yaml:"maxConcurrentCalls"`
	RequestsPerSecond  float64 `yaml:"requestsPerSecond"`
}

// RegistryConfig selects the tracking store backend.
type RegistryConfig struct {
	Backend string   `yaml:"backend"`
	S3      S3Config `yaml:"s3"`
}

// S3Config is used when Backend is "s3".
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`

	// CreateBucket creates a missing bucket at startup instead of failing.
	CreateBucket bool `yaml:"createBucket"`
}

// Intervals holds the timers of the reconcile loop.
type Intervals struct {
	Resync         time.Duration `yaml:"resync"`
	GC             time.Duration `yaml:"gc"`
	ImagePoll      time.Duration `yaml:"imagePoll"`
	RetryBaseDelay time.Duration `yaml:"retryBaseDelay"`
	RetryMaxDelay  time.Duration `yaml:"retryMaxDelay"`
}

// Timeouts bound the work done while an owner's lock is held.
type Timeouts struct {
	Call time.Duration `yaml:"call"` // one OpenStack API request
	Pass time.Duration `yaml:"pass"` // one reconcile pass or teardown of one owner
}

// Default returns the configuration used when nothing is set.
func Default() *Operator {
	return &Operator{
		Cloud:     CloudConfig{Name: "openstack"},
		Namespace: "openstack-operator",
		RateLimit: RateLimitConfig{
			MaxConcurrentCalls: 10,
			RequestsPerSecond:  20,
		},
		Registry: RegistryConfig{
			Backend: RegistryConfigMap,
			S3: S3Config{
				Key:    "openstack-operator/managed-resources.json",
				Region: "us-east-1",
			},
		},
		Intervals: Intervals{
			Resync:         300 * time.Second,
			GC:             300 * time.Second,
			ImagePoll:      30 * time.Second,
			RetryBaseDelay: 5 * time.Second,
			RetryMaxDelay:  5 * time.Minute,
		},
		Timeouts: Timeouts{
			Call: 60 * time.Second,
			Pass: 10 * time.Minute,
		},
	}
}
