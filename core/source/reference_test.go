package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		ref    string
		scheme Scheme
		bucket string
		key    string
		name   string
	}{
		{"data/ledger.csv", SchemeFile, "", "data/ledger.csv", "ledger.csv"},
		{"file:///tmp/a.json", SchemeFile, "", "/tmp/a.json", "a.json"},
		{"s3://archive/2024/q1.parquet", SchemeS3, "archive", "2024/q1.parquet", "q1.parquet"},
		{"object://incoming/b.xlsx", SchemeObject, "", "incoming/b.xlsx", "b.xlsx"},
		{"TABLE://accounts", SchemeTable, "", "accounts", "accounts"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			r, err := Parse(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, r.Scheme)
			assert.Equal(t, tt.bucket, r.Bucket)
			assert.Equal(t, tt.key, r.Key)
			assert.Equal(t, tt.name, r.Name())
			assert.Equal(t, tt.ref, r.String())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, ref := range []string{"", "  ", "s3://bucket-only", "s3:///key.csv", "ftp://host/a.csv", "table://"} {
		_, err := Parse(ref)
		assert.Error(t, err, ref)
	}
}
