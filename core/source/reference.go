package source

import (
	"fmt"
	"path"
	"strings"
)

// Scheme identifies where a dataset lives.
type Scheme string

const (
	// SchemeFile is a local file path.
	SchemeFile Scheme = "file"
	// SchemeS3 is an object in an explicit bucket: s3://bucket/key.
	SchemeS3 Scheme = "s3"
	// SchemeObject is an object in the configured bucket: object://key.
	SchemeObject Scheme = "object"
	// SchemeTable is a database table: table://name.
	SchemeTable Scheme = "table"
)

// Reference is a parsed dataset reference.
type Reference struct {
	Scheme Scheme
	// Bucket is set for s3 references.
	Bucket string
	// Key is the object key, table name or file path.
	Key string
	raw string
}

// String returns the reference as it was given.
func (r Reference) String() string {
	return r.raw
}

// Name is the display name of the referenced dataset.
func (r Reference) Name() string {
	if r.Scheme == SchemeTable {
		return r.Key
	}
	return path.Base(r.Key)
}

// Parse splits ref into its scheme and location. Anything without a known scheme
// prefix is a local path.
func Parse(ref string) (Reference, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Reference{}, fmt.Errorf("empty dataset reference")
	}

	scheme, rest, ok := strings.Cut(ref, "://")
	if !ok {
		return Reference{Scheme: SchemeFile, Key: ref, raw: ref}, nil
	}

	r := Reference{Scheme: Scheme(strings.ToLower(scheme)), raw: ref}
	switch r.Scheme {
	case SchemeFile:
		r.Key = rest
	case SchemeS3:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return Reference{}, fmt.Errorf("invalid s3 reference %q: expected s3://bucket/key", ref)
		}
		r.Bucket, r.Key = bucket, key
	case SchemeObject, SchemeTable:
		r.Key = strings.TrimPrefix(rest, "/")
	default:
		return Reference{}, fmt.Errorf("unknown reference scheme %q", scheme)
	}
	if r.Key == "" {
		return Reference{}, fmt.Errorf("invalid reference %q: missing location", ref)
	}
	return r, nil
}
