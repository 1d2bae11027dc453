// Package source resolves dataset references to datasets.
//
// A reference is a local path, an object in storage (s3://bucket/key, or
// object://key in the configured bucket) or a database table (table://name).
// Objects are spooled to a temporary file that keeps the key's extension, so the
// format loader picks the same strategy it would for a local file.
//
//	r := source.NewResolver(ingest.NewLoader(), source.WithStorage(client, "datasets"))
//	a, b, err := r.ResolvePair(ctx, "ledger.csv", "object://exports/ledger.parquet")
package source
