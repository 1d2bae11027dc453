// Package compare exposes dataset reconciliation over HTTP.
//
// # HTTP Endpoints
//
//   - POST /compare : compares two stored datasets (object://, s3:// or table:// references).
//   - POST /compare/upload : compares two uploaded files (multipart fields a and b).
//
// Both return the summary counts, the merged column names and a bounded preview of
// each requested view. With export set, every view is also written as CSV to
// <export_prefix>/<ray id>/<view>.csv in the configured bucket.
//
// Typed core failures map to 404 (missing dataset), 415 (unsupported format), 422
// (unparseable dataset) and 400 (key specification problems).
package compare
