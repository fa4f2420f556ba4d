// Package cache provides a byte-budgeted LRU cache and a read-through
// caching decorator for blob stores. It is useful in front of remote
// stores (S3, MinIO) where session and snapshot blobs are re-opened
// frequently.
package cache
