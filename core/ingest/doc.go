// Package ingest loads tabular files into datasets.
//
// Loading dispatches on the lowercased file extension through a registry of
// strategies, one per format. Each strategy is a plain function from a path to a
// dataset, so formats are independently testable and new ones can be registered
// on a Loader without touching the dispatch.
//
// # Supported Formats
//
//   - Delimited text: .csv, .txt (comma) and .tsv (tab)
//   - Spreadsheets: .xlsx, .xlsm, .xls, .xlsb, .ods (first sheet only)
//   - JSON: .json, through an ordered fallback chain (records, line-delimited, normalized)
//   - HTML: .html (first table in the document)
//   - Columnar: .parquet, .feather
//   - Pickle: .pkl (records or column mappings of plain values)
//   - Statistical: .dta, .sas7bdat, .xpt
//
// # Failures
//
// Every failure is one of the typed errors from core/errors. A missing file is a
// FileNotFoundError, an unknown extension an UnsupportedFormatError, and anything
// else raised by a strategy (including a panic) is wrapped in a LoadError carrying
// a diagnostic trace. A failed load never returns a partial dataset.
package ingest
