// Package minio implements blobstore.BlobStore for MinIO and other
// S3-compatible object stores via the native MinIO SDK.
//
// Prefer this backend for self-hosted object storage; it avoids the AWS
// credential chain and talks to any endpoint the minio client accepts.
package minio
