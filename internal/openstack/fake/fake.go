// Package fake provides an in-memory openstack.Cloud for tests.
//
// The fake keeps a log of every call, can inject errors per operation and
// enforces the dependency rules that make deletion order matter: routers
// with interfaces, subnets behind a router and networks with subnets
// cannot be deleted.
package fake

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sunet/openstack-operator/internal/openstack"
)

// Transient returns an error the operator treats as retryable.
func Transient() error {
	return &openstack.APIError{Service: "fake", Operation: "call", StatusCode: http.StatusServiceUnavailable, Err: errors.New("service unavailable")}
}

// Permanent returns an error the operator does not retry.
func Permanent() error {
	return &openstack.APIError{Service: "fake", Operation: "call", StatusCode: http.StatusBadRequest, Err: errors.New("bad request")}
}

func conflict(msg string) error {
	return &openstack.APIError{Service: "fake", Operation: "delete", StatusCode: http.StatusConflict, Err: errors.New(msg)}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, openstack.ErrNotFound)
}

type failure struct {
	err   error
	times int
}

// Cloud is an in-memory OpenStack.
type Cloud struct {
	// AutoCompleteImports makes ImportImage finish immediately.
	AutoCompleteImports bool

	mu sync.Mutex

	domains     map[string]*openstack.Domain
	projects    map[string]*openstack.Project
	groups      map[string]*openstack.Group
	users       map[string]*openstack.User
	members     map[string]bool
	roles       map[string]*openstack.Role
	assignments map[string]bool
	idps        map[string]*openstack.IdentityProvider
	mappings    map[string]*openstack.Mapping
	protocols   map[string]*openstack.Protocol
	flavors     map[string]*openstack.Flavor
	images      map[string]*openstack.Image
	imports     map[string]string
	networks    map[string]*openstack.Network
	subnets     map[string]*openstack.Subnet
	routers     map[string]*openstack.Router
	interfaces  map[string]bool
	secGroups   map[string]*openstack.SecurityGroup
	rules       map[string]*openstack.SecurityGroupRule

	computeQuotas map[string]openstack.ComputeQuota
	storageQuotas map[string]openstack.StorageQuota
	networkQuotas map[string]openstack.NetworkQuota
	computeUsage  map[string]openstack.ComputeQuota
	storageUsage  map[string]openstack.StorageQuota
	networkUsage  map[string]openstack.NetworkQuota

	calls    []string
	failures map[string]*failure
}

var _ openstack.Cloud = (*Cloud)(nil)

// New returns an empty cloud.
func New() *Cloud {
	return &Cloud{
		domains:       map[string]*openstack.Domain{},
		projects:      map[string]*openstack.Project{},
		groups:        map[string]*openstack.Group{},
		users:         map[string]*openstack.User{},
		members:       map[string]bool{},
		roles:         map[string]*openstack.Role{},
		assignments:   map[string]bool{},
		idps:          map[string]*openstack.IdentityProvider{},
		mappings:      map[string]*openstack.Mapping{},
		protocols:     map[string]*openstack.Protocol{},
		flavors:       map[string]*openstack.Flavor{},
		images:        map[string]*openstack.Image{},
		imports:       map[string]string{},
		networks:      map[string]*openstack.Network{},
		subnets:       map[string]*openstack.Subnet{},
		routers:       map[string]*openstack.Router{},
		interfaces:    map[string]bool{},
		secGroups:     map[string]*openstack.SecurityGroup{},
		rules:         map[string]*openstack.SecurityGroupRule{},
		computeQuotas: map[string]openstack.ComputeQuota{},
		storageQuotas: map[string]openstack.StorageQuota{},
		networkQuotas: map[string]openstack.NetworkQuota{},
		computeUsage:  map[string]openstack.ComputeQuota{},
		storageUsage:  map[string]openstack.StorageQuota{},
		networkUsage:  map[string]openstack.NetworkQuota{},
		failures:      map[string]*failure{},
	}
}

// Fail makes the next times calls of op return err. times < 0 fails forever.
func (c *Cloud) Fail(op string, err error, times int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[op] = &failure{err: err, times: times}
}

// ClearFailures removes all injected errors.
func (c *Cloud) ClearFailures() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = map[string]*failure{}
}

// Calls returns the operation log, one "Op name-or-id" entry per call.
func (c *Cloud) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.calls)
}

// Mutations returns the logged calls that change cloud state.
func (c *Cloud) Mutations() []string {
	var out []string
	for _, call := range c.Calls() {
		op, _, _ := strings.Cut(call, " ")
		for _, prefix := range []string{"Create", "Update", "Delete", "Add", "Remove", "Assign", "Unassign", "Set", "Import", "Tag"} {
			if strings.HasPrefix(op, prefix) {
				out = append(out, call)
				break
			}
		}
	}
	return out
}

// ResetCalls clears the operation log.
func (c *Cloud) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

// enter logs the call and returns an injected error, if any. Caller holds c.mu.
func (c *Cloud) enter(op, subject string) error {
	c.calls = append(c.calls, op+" "+subject)
	f, ok := c.failures[op]
	if !ok {
		return nil
	}
	if f.times > 0 {
		f.times--
		if f.times == 0 {
			delete(c.failures, op)
		}
	}
	return f.err
}

func newID() string { return uuid.NewString() }

func clonePtr[T any](v *T) *T {
	out := *v
	return &out
}

// Seed helpers.

// AddUser registers a pre-existing user.
func (c *Cloud) AddUser(domainID, name string) *openstack.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := &openstack.User{ID: newID(), Name: name, DomainID: domainID}
	c.users[u.ID] = u
	return clonePtr(u)
}

// AddRole registers a pre-existing role.
func (c *Cloud) AddRole(name string) *openstack.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := &openstack.Role{ID: newID(), Name: name}
	c.roles[r.ID] = r
	return clonePtr(r)
}

// AddDomain registers a pre-existing domain.
func (c *Cloud) AddDomain(name string) *openstack.Domain {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := &openstack.Domain{ID: newID(), Name: name, Enabled: true}
	c.domains[d.ID] = d
	return clonePtr(d)
}

// AddExternalNetwork registers a pre-existing external network.
func (c *Cloud) AddExternalNetwork(name string) *openstack.Network {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := &openstack.Network{ID: newID(), Name: name, External: true, NetworkType: "flat", PhysicalNetwork: "physnet1"}
	c.networks[n.ID] = n
	return clonePtr(n)
}

// AddImage registers a pre-existing image, e.g. one uploaded by hand.
func (c *Cloud) AddImage(name, status string) *openstack.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	img := &openstack.Image{ID: newID(), Name: name, Status: status, Visibility: "public", Properties: map[string]string{}}
	c.images[img.ID] = img
	return clonePtr(img)
}

// SetMapping replaces a mapping wholesale, e.g. to add foreign rules.
func (c *Cloud) SetMapping(id string, rules []json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mappings[id] = &openstack.Mapping{ID: id, Rules: slices.Clone(rules)}
}

// SetImageStatus forces an image status, e.g. to finish or kill an import.
func (c *Cloud) SetImageStatus(id, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[id]; ok {
		img.Status = status
		if status == openstack.ImageActive {
			img.Checksum = "d41d8cd98f00b204e9800998ecf8427e"
			img.SizeBytes = 1 << 20
		}
	}
}

// ImportURL returns the URL an image import was started with.
func (c *Cloud) ImportURL(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.imports[id]
}

// Len returns how many resources of kind exist. Kinds are the plural
// resource names: domains, projects, groups, networks, subnets, routers,
// interfaces, securityGroups, rules, flavors, images, members, assignments,
// mappings, identityProviders, protocols.
func (c *Cloud) Len(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case "domains":
		return len(c.domains)
	case "projects":
		return len(c.projects)
	case "groups":
		return len(c.groups)
	case "networks":
		return len(c.networks)
	case "subnets":
		return len(c.subnets)
	case "routers":
		return len(c.routers)
	case "interfaces":
		return len(c.interfaces)
	case "securityGroups":
		return len(c.secGroups)
	case "rules":
		return len(c.rules)
	case "flavors":
		return len(c.flavors)
	case "images":
		return len(c.images)
	case "members":
		return len(c.members)
	case "assignments":
		return len(c.assignments)
	case "mappings":
		return len(c.mappings)
	case "identityProviders":
		return len(c.idps)
	case "protocols":
		return len(c.protocols)
	}
	panic("fake: unknown kind " + kind)
}

// findOne returns the single value matching pred.
func findOne[T any](kind, name string, m map[string]*T, pred func(*T) bool) (*T, error) {
	var matches []*T
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if pred(m[k]) {
			matches = append(matches, m[k])
		}
	}
	switch len(matches) {
	case 0:
		return nil, notFound(kind, name)
	case 1:
		return clonePtr(matches[0]), nil
	}
	return nil, fmt.Errorf("%s %q: %d matches: %w", kind, name, len(matches), openstack.ErrAmbiguous)
}

func pairKey(parts ...string) string { return strings.Join(parts, "|") }
