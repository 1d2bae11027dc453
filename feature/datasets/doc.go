// Package datasets lets API clients discover and preview datasets before
// comparing them.
//
// # HTTP Endpoints
//
//   - GET /datasets/formats : supported extensions by family.
//   - GET /datasets/objects : loadable objects in the dataset bucket (?prefix=).
//   - POST /datasets/inspect : schema, status line and preview of a stored dataset.
//   - POST /datasets/inspect/upload : the same for an uploaded file.
package datasets
