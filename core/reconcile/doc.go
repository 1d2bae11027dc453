// Package reconcile compares two datasets on key columns.
//
// Compare performs a full outer equality join between a left (A) and a right (B)
// dataset and tags every output row with its origin: both, left_only or
// right_only. The inputs are never modified; normalization and projection work on
// copies, and the output key columns keep their original values.
//
// # Pipeline
//
// 1. Validate: key lists must have equal, non-zero length; every key and every
// retained column must exist (missing columns from both sides are reported
// together); the cardinality mode must be known.
//
// 2. Project: a side with an allow-list is reduced to its keys followed by the
// allowed columns.
//
// 3. Index: composite keys are encoded per row, optionally trimmed and lowercased
// for text keys. Both sides can be indexed concurrently.
//
// 4. Validate cardinality, then join: each left row is emitted with every matching
// right row in right order, followed by the right rows that matched nothing.
//
// # Output Layout
//
// Left columns come first, then right columns, then the origin indicator. A right
// key with the same name as its paired left key is merged into the left key
// column. Other names present on both sides receive the suffix pair, except left
// key columns, which keep their names.
//
// # Usage Example
//
//	res, err := reconcile.Compare(a, b, []string{"id"}, []string{"id"}, reconcile.Options{
//	    Normalize: true,
//	    KeepA:     []string{"name"},
//	})
//	fmt.Println(res.Summary.Matches, res.LeftOnly.NumRows())
package reconcile
