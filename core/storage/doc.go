// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so datasets can be read from, and comparison results
// written to, AWS S3 or a self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - Download: copies an object into a writer (used to spool sources to disk).
//   - Upload: stores an export with a content type derived from its extension.
//   - EnsureBucket: creates the export bucket on first use.
//   - List: lists the dataset keys below a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	keys, err := storage.List(ctx, client, cfg.Storage.Bucket, "incoming/")
package storage
