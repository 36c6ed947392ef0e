package openstack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// apiServer serves canned responses keyed by "METHOD path".
type apiServer struct {
	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []recordedRequest
}

type cannedResponse struct {
	status int
	body   string
}

func newAPIServer(t *testing.T) (*apiServer, *gophercloud.ServiceClient) {
	t.Helper()
	s := &apiServer{responses: map[string]cannedResponse{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		req := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &req.Body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		resp, ok := s.responses[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = io.WriteString(w, resp.body)
	}))
	t.Cleanup(srv.Close)

	sc := &gophercloud.ServiceClient{
		ProviderClient: &gophercloud.ProviderClient{TokenID: "test-token"},
		Endpoint:       srv.URL + "/v3/",
	}
	return s, sc
}

func (s *apiServer) on(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

func (s *apiServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func TestFederation_GetMappingKeepsRawRules(t *testing.T) {
	srv, sc := newAPIServer(t)
	srv.on("GET", "/v3/OS-FEDERATION/mappings/myidp_oidc_mapping", 200,
		`{"mapping":{"id":"myidp_oidc_mapping","rules":[{"local":[{"group":{"name":"other"}}],"remote":[{"type":"x","any_one_of":["a"]}]}]}}`)
	c := NewClientFromServices(ServiceClients{Identity: sc})

	m, err := c.GetMapping(context.Background(), "myidp_oidc_mapping")
	require.NoError(t, err)
	require.Len(t, m.Rules, 1)
	assert.JSONEq(t, `{"local":[{"group":{"name":"other"}}],"remote":[{"type":"x","any_one_of":["a"]}]}`, string(m.Rules[0]))
}

func TestFederation_MissingMappingIsNotFound(t *testing.T) {
	_, sc := newAPIServer(t)
	c := NewClientFromServices(ServiceClients{Identity: sc})

	_, err := c.GetMapping(context.Background(), "absent")
	assert.True(t, IsNotFound(err))
}

func TestFederation_UpdateMappingSendsPatch(t *testing.T) {
	srv, sc := newAPIServer(t)
	srv.on("PATCH", "/v3/OS-FEDERATION/mappings/m1", 200, `{"mapping":{"id":"m1","rules":[]}}`)
	c := NewClientFromServices(ServiceClients{Identity: sc})

	rule := json.RawMessage(`{"local":[],"remote":[]}`)
	_, err := c.UpdateMapping(context.Background(), "m1", []json.RawMessage{rule})
	require.NoError(t, err)

	reqs := srv.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "PATCH", reqs[0].Method)
	mapping := reqs[0].Body["mapping"].(map[string]any)
	assert.Len(t, mapping["rules"], 1)
}

func TestFederation_CreateProtocolAndIdentityProvider(t *testing.T) {
	srv, sc := newAPIServer(t)
	srv.on("PUT", "/v3/OS-FEDERATION/identity_providers/myidp", 201, `{"identity_provider":{"id":"myidp","enabled":true}}`)
	srv.on("PUT", "/v3/OS-FEDERATION/identity_providers/myidp/protocols/openid", 201, `{"protocol":{"id":"openid","mapping_id":"m1"}}`)
	c := NewClientFromServices(ServiceClients{Identity: sc})

	idp, err := c.CreateIdentityProvider(context.Background(), "myidp", nil)
	require.NoError(t, err)
	assert.True(t, idp.Enabled)

	p, err := c.CreateProtocol(context.Background(), "myidp", "openid", "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", p.MappingID)

	reqs := srv.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "m1", reqs[1].Body["protocol"].(map[string]any)["mapping_id"])
}

func TestIdentity_DeleteDomainDisablesFirst(t *testing.T) {
	srv, sc := newAPIServer(t)
	srv.on("PATCH", "/v3/domains/d1", 200, `{"domain":{"id":"d1","name":"acme","enabled":false}}`)
	srv.on("DELETE", "/v3/domains/d1", 204, ``)
	c := NewClientFromServices(ServiceClients{Identity: sc})

	require.NoError(t, c.DeleteDomain(context.Background(), "d1"))

	reqs := srv.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "PATCH", reqs[0].Method)
	assert.Equal(t, false, reqs[0].Body["domain"].(map[string]any)["enabled"])
	assert.Equal(t, "DELETE", reqs[1].Method)
}

func TestIdentity_FindProjectAmbiguousAndMissing(t *testing.T) {
	srv, sc := newAPIServer(t)
	c := NewClientFromServices(ServiceClients{Identity: sc})

	srv.on("GET", "/v3/projects", 200, `{"projects":[],"links":{}}`)
	_, err := c.FindProject(context.Background(), "d1", "p")
	assert.True(t, IsNotFound(err))

	srv.on("GET", "/v3/projects", 200, `{"projects":[{"id":"a","name":"p"},{"id":"b","name":"p"}],"links":{}}`)
	_, err = c.FindProject(context.Background(), "d1", "p")
	require.ErrorIs(t, err, ErrAmbiguous)
	assert.False(t, IsTransient(err))
}

func TestCall_TimeoutIsTransient(t *testing.T) {
	c := NewClientFromServices(ServiceClients{}, WithCallTimeout(20*time.Millisecond))

	err := c.call(context.Background(), serviceCompute, "get_flavor", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsTransient(err))
}

func TestCall_NoTimeoutByDefault(t *testing.T) {
	c := NewClientFromServices(ServiceClients{})

	err := c.call(context.Background(), serviceCompute, "get_flavor", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.False(t, ok)
		return nil
	})
	assert.NoError(t, err)
}

func TestNetwork_HasRouterInterface(t *testing.T) {
	srv, sc := newAPIServer(t)
	srv.on("GET", "/v3/v2.0/ports", 200,
		`{"ports":[{"id":"p1","device_id":"r1","fixed_ips":[{"subnet_id":"s1","ip_address":"10.0.0.1"}]}]}`)
	sc.ResourceBase = sc.Endpoint + "v2.0/"
	c := NewClientFromServices(ServiceClients{Network: sc})

	ok, err := c.HasRouterInterface(context.Background(), "r1", "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasRouterInterface(context.Background(), "r1", "s2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNetwork_GetNetworkDecodesProviderAttributes(t *testing.T) {
	srv, sc := newAPIServer(t)
	srv.on("GET", "/v3/v2.0/networks/n1", 200,
		`{"network":{"id":"n1","name":"public","router:external":true,"provider:network_type":"vlan","provider:physical_network":"physnet1","provider:segmentation_id":100}}`)
	sc.ResourceBase = sc.Endpoint + "v2.0/"
	c := NewClientFromServices(ServiceClients{Network: sc})

	n, err := c.GetNetwork(context.Background(), "n1")
	require.NoError(t, err)
	assert.True(t, n.External)
	assert.Equal(t, "vlan", n.NetworkType)
	assert.Equal(t, "physnet1", n.PhysicalNetwork)
	assert.Equal(t, 100, n.SegmentationID)
}

func TestSecurityGroup_CreateRemovesDefaultRules(t *testing.T) {
	srv, sc := newAPIServer(t)
	sc.ResourceBase = sc.Endpoint + "v2.0/"
	srv.on("POST", "/v3/v2.0/security-groups", 201,
		`{"security_group":{"id":"sg1","name":"web","rules":[{"id":"r4","direction":"egress","ethertype":"IPv4","security_group_id":"sg1"},{"id":"r6","direction":"egress","ethertype":"IPv6","security_group_id":"sg1"}]}}`)
	srv.on("DELETE", "/v3/v2.0/security-group-rules/r4", 204, ``)
	srv.on("DELETE", "/v3/v2.0/security-group-rules/r6", 204, ``)
	c := NewClientFromServices(ServiceClients{Network: sc})

	g, err := c.CreateSecurityGroup(context.Background(), "p1", "web", "")
	require.NoError(t, err)
	assert.Empty(t, g.Rules)

	var deleted []string
	for _, r := range srv.recorded() {
		if r.Method == "DELETE" {
			deleted = append(deleted, r.Path)
		}
	}
	assert.ElementsMatch(t, []string{
		"/v3/v2.0/security-group-rules/r4",
		"/v3/v2.0/security-group-rules/r6",
	}, deleted)
}
