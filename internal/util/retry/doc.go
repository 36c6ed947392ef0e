// Package retry holds the backoff arithmetic shared by the operator.
//
// [Do] retries an operation in-process; the tracking store uses it with
// immediate retries for read-modify-write conflicts. [Delay] computes the
// requeue delay the reconcilers wait between passes after a transient
// OpenStack failure.
package retry
