// Package config provides configuration management for the data reconciler.
//
// Values come from struct tag defaults, an optional .env file and the
// environment, in increasing priority. Nested keys map to environment variables
// by replacing dots with underscores (compare.suffix_a is COMPARE_SUFFIX_A).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, upload limit and preview size
//   - Storage: S3/MinIO credentials, dataset bucket and export prefix
//   - Database: driver (mysql or sqlite) and connection details for table:// sources
//   - Log: logging level and format
//   - Compare: default suffixes, indicator column, normalization and cardinality
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts := cfg.Compare.Options()
package config
