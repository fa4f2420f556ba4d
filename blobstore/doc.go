// Package blobstore abstracts where persisted sessions and snapshots
// live.
//
// A BlobStore holds named immutable blobs: MemoryStore for tests and
// embedded use, LocalStore for the local filesystem, and the s3 and minio
// sub-packages for object storage. Writes are atomic per blob; readers
// see either the previous bytes or the new bytes, never a mix.
package blobstore
