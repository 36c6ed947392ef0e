package openstack

import (
	"context"
	"encoding/json"

	"github.com/gophercloud/gophercloud/v2"
)

// gophercloud has no OS-FEDERATION identity provider or protocol support,
// so these calls go through the raw identity service client.

type identityProviderBody struct {
	ID        string   `json:"id,omitempty"`
	RemoteIDs []string `json:"remote_ids"`
	Enabled   bool     `json:"enabled"`
}

type mappingBody struct {
	ID    string            `json:"id,omitempty"`
	Rules []json.RawMessage `json:"rules"`
}

type protocolBody struct {
	ID        string `json:"id,omitempty"`
	MappingID string `json:"mapping_id"`
}

func (c *Client) idpURL(id string) string {
	return c.identity.ServiceURL("OS-FEDERATION", "identity_providers", id)
}

func (c *Client) mappingURL(id string) string {
	return c.identity.ServiceURL("OS-FEDERATION", "mappings", id)
}

func (c *Client) protocolURL(idpID, protocolID string) string {
	return c.identity.ServiceURL("OS-FEDERATION", "identity_providers", idpID, "protocols", protocolID)
}

func (c *Client) GetIdentityProvider(ctx context.Context, id string) (*IdentityProvider, error) {
	var resp struct {
		IdentityProvider identityProviderBody `json:"identity_provider"`
	}
	err := c.call(ctx, serviceIdentity, "get_identity_provider", func(ctx context.Context) error {
		_, err := c.identity.Get(ctx, c.idpURL(id), &resp, &gophercloud.RequestOpts{OkCodes: []int{200}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &IdentityProvider{
		ID:        id,
		RemoteIDs: resp.IdentityProvider.RemoteIDs,
		Enabled:   resp.IdentityProvider.Enabled,
	}, nil
}

func (c *Client) CreateIdentityProvider(ctx context.Context, id string, remoteIDs []string) (*IdentityProvider, error) {
	if remoteIDs == nil {
		remoteIDs = []string{}
	}
	req := map[string]any{
		"identity_provider": identityProviderBody{RemoteIDs: remoteIDs, Enabled: true},
	}
	err := c.call(ctx, serviceIdentity, "create_identity_provider", func(ctx context.Context) error {
		_, err := c.identity.Put(ctx, c.idpURL(id), req, nil, &gophercloud.RequestOpts{OkCodes: []int{201}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &IdentityProvider{ID: id, RemoteIDs: remoteIDs, Enabled: true}, nil
}

func (c *Client) GetMapping(ctx context.Context, id string) (*Mapping, error) {
	var resp struct {
		Mapping mappingBody `json:"mapping"`
	}
	err := c.call(ctx, serviceIdentity, "get_mapping", func(ctx context.Context) error {
		_, err := c.identity.Get(ctx, c.mappingURL(id), &resp, &gophercloud.RequestOpts{OkCodes: []int{200}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Mapping{ID: id, Rules: resp.Mapping.Rules}, nil
}

func (c *Client) CreateMapping(ctx context.Context, id string, rules []json.RawMessage) (*Mapping, error) {
	return c.writeMapping(ctx, "create_mapping", id, rules, func(ctx context.Context, url string, body any) error {
		_, err := c.identity.Put(ctx, url, body, nil, &gophercloud.RequestOpts{OkCodes: []int{201}})
		return err
	})
}

func (c *Client) UpdateMapping(ctx context.Context, id string, rules []json.RawMessage) (*Mapping, error) {
	return c.writeMapping(ctx, "update_mapping", id, rules, func(ctx context.Context, url string, body any) error {
		_, err := c.identity.Patch(ctx, url, body, nil, &gophercloud.RequestOpts{OkCodes: []int{200}})
		return err
	})
}

func (c *Client) writeMapping(ctx context.Context, op, id string, rules []json.RawMessage,
	send func(ctx context.Context, url string, body any) error) (*Mapping, error) {
	if rules == nil {
		rules = []json.RawMessage{}
	}
	req := map[string]any{"mapping": mappingBody{Rules: rules}}
	err := c.call(ctx, serviceIdentity, op, func(ctx context.Context) error {
		return send(ctx, c.mappingURL(id), req)
	})
	if err != nil {
		return nil, err
	}
	return &Mapping{ID: id, Rules: rules}, nil
}

func (c *Client) GetProtocol(ctx context.Context, idpID, protocolID string) (*Protocol, error) {
	var resp struct {
		Protocol protocolBody `json:"protocol"`
	}
	err := c.call(ctx, serviceIdentity, "get_protocol", func(ctx context.Context) error {
		_, err := c.identity.Get(ctx, c.protocolURL(idpID, protocolID), &resp, &gophercloud.RequestOpts{OkCodes: []int{200}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Protocol{ID: protocolID, MappingID: resp.Protocol.MappingID}, nil
}

func (c *Client) CreateProtocol(ctx context.Context, idpID, protocolID, mappingID string) (*Protocol, error) {
	req := map[string]any{"protocol": protocolBody{MappingID: mappingID}}
	err := c.call(ctx, serviceIdentity, "create_protocol", func(ctx context.Context) error {
		_, err := c.identity.Put(ctx, c.protocolURL(idpID, protocolID), req, nil, &gophercloud.RequestOpts{OkCodes: []int{201}})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Protocol{ID: protocolID, MappingID: mappingID}, nil
}
