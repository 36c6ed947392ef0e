// Package async provides utilities for parallel task execution with
// error collection.
//
// [RunParallel] runs independent operations concurrently, optionally
// bounded, and joins every error. The garbage collector uses it to sweep
// orphaned owners in parallel.
package async
