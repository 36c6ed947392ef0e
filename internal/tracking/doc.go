// Package tracking records every OpenStack resource the operator created and
// the custom resource that owns it.
//
// All records live in one versioned document. [DocumentStore] performs
// each change as a read-modify-write against a [Backend] and retries
// immediately when the backend reports a version conflict. Backends exist
// for a Kubernetes ConfigMap, an S3 object, and process memory.
package tracking
