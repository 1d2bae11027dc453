package compare

import (
	"fmt"
	"strings"

	"data-reconciler/core/dataset"
	"data-reconciler/core/reconcile"
)

// Request describes one comparison.
type Request struct {
	// A and B reference the datasets (object://key, s3://bucket/key or table://name).
	A string `json:"a" example:"object://ledger/2024-01.csv"`
	B string `json:"b" example:"table://ledger"`

	KeysA []string `json:"keys_a" example:"id"`
	KeysB []string `json:"keys_b" example:"id"`
	KeepA []string `json:"keep_a,omitempty"`
	KeepB []string `json:"keep_b,omitempty"`

	// SuffixA and SuffixB override the configured suffixes.
	SuffixA string `json:"suffix_a,omitempty"`
	SuffixB string `json:"suffix_b,omitempty"`
	// Validate is one_to_one, one_to_many, many_to_one or many_to_many.
	Validate string `json:"validate,omitempty"`
	// Normalize overrides the configured key normalization.
	Normalize *bool `json:"normalize,omitempty"`
	Sort      bool  `json:"sort,omitempty"`

	// Views selects the returned views; empty returns all of them.
	Views []string `json:"views,omitempty"`
	// Limit bounds the preview rows per view; zero uses the server default and a
	// negative value returns every row.
	Limit int `json:"limit,omitempty"`
	// Export uploads every view as CSV to object storage.
	Export bool `json:"export,omitempty"`
}

// Check reports the first problem that makes the request unusable.
func (r *Request) Check() error {
	if strings.TrimSpace(r.A) == "" || strings.TrimSpace(r.B) == "" {
		return fmt.Errorf("both datasets a and b are required")
	}
	for _, v := range r.Views {
		if _, err := (&reconcile.Result{}).View(v); err != nil {
			return err
		}
	}
	return nil
}

// Options merges the request over the configured defaults.
func (r *Request) Options(defaults reconcile.Config) reconcile.Options {
	opts := defaults.Options()
	if r.SuffixA != "" {
		opts.Suffixes[0] = r.SuffixA
	}
	if r.SuffixB != "" {
		opts.Suffixes[1] = r.SuffixB
	}
	if r.Validate != "" {
		opts.Validate = r.Validate
	}
	if r.Normalize != nil {
		opts.Normalize = *r.Normalize
	}
	opts.KeepA = r.KeepA
	opts.KeepB = r.KeepB
	opts.SortKeys = r.Sort
	return opts
}

// Response is the outcome of a comparison.
type Response struct {
	// StatusA and StatusB are the "<file> :: <rows> rows :: <cols> columns" lines.
	StatusA string                   `json:"status_a"`
	StatusB string                   `json:"status_b"`
	Summary reconcile.Summary        `json:"summary"`
	Columns []string                 `json:"columns"`
	Views   map[string]dataset.Table `json:"views"`
	// Exports lists the uploaded object keys.
	Exports []string `json:"exports,omitempty"`
}
