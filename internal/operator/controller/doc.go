// Package controller implements the Kubernetes controllers for the
// OpenstackDomain, OpenstackFlavor, OpenstackImage, OpenstackNetwork and
// OpenstackProject custom resources.
//
// Every kind is driven by the same Orchestrator. Each pass derives an event
// from the object (Created, SpecChanged, Resync, Deleted), looks up the
// action for the current phase in a fixed transition table and runs it:
//
//	Pending/Provisioning -> Resume (skip steps whose records exist)
//	Ready                -> Verify (re-run every step, correcting drift)
//	Error                -> Recheck (read-only, until the spec changes)
//	any + SpecChanged    -> Provision
//	any + Deleted        -> Delete (reverse dependency order, then finalizer)
//
// At most one pass runs per resource UID at a time. The GarbageCollector
// takes the same per-UID lock before removing resources whose owner no
// longer exists.
package controller
