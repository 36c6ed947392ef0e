package openstack

import (
	"context"
	"fmt"
	"time"

	"github.com/gophercloud/gophercloud/v2"
	gcos "github.com/gophercloud/gophercloud/v2/openstack"
	gcconfig "github.com/gophercloud/gophercloud/v2/openstack/config"
	"github.com/gophercloud/gophercloud/v2/openstack/config/clouds"
)

// Service names used for limiter and metric labels.
const (
	serviceIdentity = "identity"
	serviceCompute  = "compute"
	serviceNetwork  = "network"
	serviceImage    = "image"
	serviceVolume   = "volume"
)

// Compute microversion needed for flavor descriptions.
const computeMicroversion = "2.55"

// Client implements Cloud on top of gophercloud.
type Client struct {
	identity *gophercloud.ServiceClient
	compute  *gophercloud.ServiceClient
	network  *gophercloud.ServiceClient
	image    *gophercloud.ServiceClient
	volume   *gophercloud.ServiceClient
	limiter  *Limiter
	timeout  time.Duration
}

var _ Cloud = (*Client)(nil)

// ServiceClients are the per-service endpoints a Client talks to.
type ServiceClients struct {
	Identity *gophercloud.ServiceClient
	Compute  *gophercloud.ServiceClient
	Network  *gophercloud.ServiceClient
	Image    *gophercloud.ServiceClient
	Volume   *gophercloud.ServiceClient
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLimiter shares a limiter with the client.
func WithLimiter(l *Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithCallTimeout bounds each API request. Zero leaves requests unbounded.
func WithCallTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClientFromServices builds a client from existing service clients (useful for testing).
func NewClientFromServices(sc ServiceClients, opts ...ClientOption) *Client {
	c := &Client{
		identity: sc.Identity,
		compute:  sc.Compute,
		network:  sc.Network,
		image:    sc.Image,
		volume:   sc.Volume,
		limiter:  NewLimiter(0, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient authenticates against the named cloud from a clouds.yaml file.
// An empty configFile uses the standard clouds.yaml search path.
func NewClient(ctx context.Context, cloudName, configFile string, opts ...ClientOption) (*Client, error) {
	parseOpts := []clouds.ParseOption{clouds.WithCloudName(cloudName)}
	if configFile != "" {
		parseOpts = append(parseOpts, clouds.WithLocations(configFile))
	}
	authOpts, endpointOpts, tlsConfig, err := clouds.Parse(parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clouds.yaml: %w", err)
	}
	authOpts.AllowReauth = true

	provider, err := gcconfig.NewProviderClient(ctx, authOpts, gcconfig.WithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate to cloud %q: %w", cloudName, err)
	}

	var sc ServiceClients
	if sc.Identity, err = gcos.NewIdentityV3(provider, endpointOpts); err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}
	if sc.Compute, err = gcos.NewComputeV2(provider, endpointOpts); err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	sc.Compute.Microversion = computeMicroversion
	if sc.Network, err = gcos.NewNetworkV2(provider, endpointOpts); err != nil {
		return nil, fmt.Errorf("failed to create network client: %w", err)
	}
	if sc.Image, err = gcos.NewImageV2(provider, endpointOpts); err != nil {
		return nil, fmt.Errorf("failed to create image client: %w", err)
	}
	if sc.Volume, err = gcos.NewBlockStorageV3(provider, endpointOpts); err != nil {
		return nil, fmt.Errorf("failed to create block storage client: %w", err)
	}
	return NewClientFromServices(sc, opts...), nil
}

// call runs fn under the limiter and classifies its error. The call
// timeout starts once a limiter slot is held.
func (c *Client) call(ctx context.Context, service, operation string, fn func(context.Context) error) error {
	release, err := c.limiter.Acquire(ctx, service)
	if err != nil {
		return err
	}
	defer release()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	err = Classify(service, operation, fn(ctx))
	apiCallDuration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
	apiCallsTotal.WithLabelValues(service, operation, callResult(err)).Inc()
	return err
}

// only returns the single element of items, ErrNotFound when empty and
// ErrAmbiguous when the name matches more than one.
func only[T any](kind, name string, items []T) (*T, error) {
	switch len(items) {
	case 0:
		return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	case 1:
		return &items[0], nil
	}
	return nil, fmt.Errorf("%s %q: %d matches: %w", kind, name, len(items), ErrAmbiguous)
}
