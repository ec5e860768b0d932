// Package storage provides an S3-compatible object storage client used to
// publish built modpack releases.
//
// The Client interface wraps the subset of Minio operations the publisher
// needs, so tests can substitute the mock implementation from the mocks
// subpackage.
package storage
