// Package openstack is the operator's view of the OpenStack APIs.
//
// Each resource kind gets a narrow capability interface (DomainAPI,
// FlavorAPI, NetworkAPI, ...). [Client] implements all of them with
// gophercloud, routing every call through a [Limiter] and classifying
// failures into [ErrNotFound], transient and permanent [APIError]s. The
// fake subpackage implements the same interfaces in memory for tests.
package openstack
