// Package s3 provides a small client for S3-compatible object storage.
//
// Besides plain bucket operations it exposes ETag-conditional reads and
// writes ([Client.GetObject], [Client.PutObjectIf]) so a single object can
// serve as an optimistic-concurrency document.
package s3
