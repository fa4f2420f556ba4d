// Package catalog maintains a registry of saved sessions: which names
// exist, what measure they describe, and where their blobs live. The
// blobs themselves stay in a blobstore; the catalog only answers "what is
// saved" without opening anything.
//
// DDB implements the catalog on DynamoDB with conditional writes for
// optimistic concurrency; Memory is the embedded/test implementation.
package catalog
