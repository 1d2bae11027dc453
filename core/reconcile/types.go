package reconcile

import (
	"fmt"
	"strings"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"
)

// Origin classifies a merged row.
type Origin string

const (
	// OriginBoth marks a row built from a left and a right row with equal keys.
	OriginBoth Origin = "both"
	// OriginLeftOnly marks a left row without a match.
	OriginLeftOnly Origin = "left_only"
	// OriginRightOnly marks a right row without a match.
	OriginRightOnly Origin = "right_only"
)

// Cardinality is a declared join multiplicity.
type Cardinality string

const (
	// Unchecked performs no cardinality validation.
	Unchecked Cardinality = ""
	// OneToOne requires unique keys on both sides.
	OneToOne Cardinality = "one_to_one"
	// OneToMany requires unique keys on the left side.
	OneToMany Cardinality = "one_to_many"
	// ManyToOne requires unique keys on the right side.
	ManyToOne Cardinality = "many_to_one"
	// ManyToMany accepts any multiplicity.
	ManyToMany Cardinality = "many_to_many"
)

// ParseCardinality accepts the long names and the 1:1, 1:m, m:1 and m:m aliases.
func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return Unchecked, nil
	case "one_to_one", "1:1":
		return OneToOne, nil
	case "one_to_many", "1:m":
		return OneToMany, nil
	case "many_to_one", "m:1":
		return ManyToOne, nil
	case "many_to_many", "m:m":
		return ManyToMany, nil
	}
	return "", &errors.InvalidKeySpecError{
		Message: fmt.Sprintf("unknown cardinality %q (use one_to_one, one_to_many, many_to_one or many_to_many)", s),
	}
}

func (c Cardinality) leftUnique() bool  { return c == OneToOne || c == OneToMany }
func (c Cardinality) rightUnique() bool { return c == OneToOne || c == ManyToOne }

func (c Cardinality) label() string {
	return strings.ReplaceAll(string(c), "_", "-")
}

// Default option values.
const (
	DefaultSuffixA   = "_A"
	DefaultSuffixB   = "_B"
	DefaultIndicator = "_merge"
)

// Options tunes a comparison. The zero value compares all columns with the
// default suffixes and no normalization.
type Options struct {
	// Suffixes disambiguate non-key names present on both sides.
	// A zero pair means DefaultSuffixA and DefaultSuffixB.
	Suffixes [2]string

	// KeepA and KeepB restrict a side to its keys plus these columns.
	// Nil keeps every column; an empty non-nil slice keeps only the keys.
	KeepA []string
	KeepB []string

	// Validate declares the expected join cardinality (see ParseCardinality).
	Validate string

	// Normalize trims and lowercases text keys for matching only.
	Normalize bool

	// Indicator names the origin column of the merged dataset.
	Indicator string

	// SortKeys orders the output rows by key instead of by input position.
	SortKeys bool

	// Parallel indexes both sides concurrently.
	Parallel bool
}

func (o Options) withDefaults() Options {
	if o.Suffixes == [2]string{} {
		o.Suffixes = [2]string{DefaultSuffixA, DefaultSuffixB}
	}
	if o.Indicator == "" {
		o.Indicator = DefaultIndicator
	}
	return o
}

// Summary counts the rows of a comparison.
type Summary struct {
	LeftRows  int `json:"left_rows" yaml:"left_rows"`
	RightRows int `json:"right_rows" yaml:"right_rows"`
	Merged    int `json:"merged" yaml:"merged"`
	Matches   int `json:"matches" yaml:"matches"`
	LeftOnly  int `json:"left_only" yaml:"left_only"`
	RightOnly int `json:"right_only" yaml:"right_only"`
}

// Result bundles the merged dataset with its origin-filtered views. Merged is
// authoritative; the views are derived from it.
type Result struct {
	Merged    *dataset.Dataset
	Matches   *dataset.Dataset
	LeftOnly  *dataset.Dataset
	RightOnly *dataset.Dataset

	// Origins holds the origin of each merged row.
	Origins []Origin
	Summary Summary
}

// View names accepted by Result.View.
const (
	ViewMerged    = "merged"
	ViewMatches   = "matches"
	ViewLeftOnly  = "left_only"
	ViewRightOnly = "right_only"
)

// Views lists the view names in display order.
func Views() []string {
	return []string{ViewMerged, ViewMatches, ViewLeftOnly, ViewRightOnly}
}

// View returns the dataset registered under name.
func (r *Result) View(name string) (*dataset.Dataset, error) {
	switch strings.ToLower(name) {
	case ViewMerged, "":
		return r.Merged, nil
	case ViewMatches, "both":
		return r.Matches, nil
	case ViewLeftOnly, "left":
		return r.LeftOnly, nil
	case ViewRightOnly, "right":
		return r.RightOnly, nil
	}
	return nil, fmt.Errorf("unknown view %q", name)
}
