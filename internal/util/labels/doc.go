// Package labels provides consistent labels for the Kubernetes objects the
// operator writes and the ownership properties it stamps on OpenStack
// resources that accept key/value metadata.
package labels
