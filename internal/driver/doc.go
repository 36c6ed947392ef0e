// Package driver turns desired specs into OpenStack resources.
//
// Each custom resource kind has a pass that runs the steps of its plan
// against an openstack.Cloud. Every external create is recorded in the
// tracking store before the step returns, so an interrupted pass can be
// resumed and anything left behind can be garbage-collected. Deletion goes
// through the Reaper, which understands how to observe and remove every
// tracked kind.
//
// Errors returned by passes are either *TransientError (retry with
// backoff) or *PermanentError (stop until the spec changes).
package driver
