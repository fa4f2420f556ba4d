// Package s3 implements blobstore.BlobStore on Amazon S3 (and
// API-compatible services) using aws-sdk-go-v2.
//
// Reads use ranged GETs so large snapshots are not pulled whole for a
// header check; writes stream through the SDK's upload manager.
package s3
