package reconcile

import (
	"fmt"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"
)

// validateKeySpec checks the key lists alone, before either dataset is read.
func validateKeySpec(keysA, keysB []string) error {
	if len(keysA) != len(keysB) {
		return &errors.InvalidKeySpecError{
			LeftKeys:  keysA,
			RightKeys: keysB,
			Message: fmt.Sprintf("columns A and columns B must have the same number of keys (%d vs %d)",
				len(keysA), len(keysB)),
		}
	}
	if len(keysA) == 0 {
		return &errors.InvalidKeySpecError{Message: "at least one key column is required"}
	}
	for side, keys := range map[string][]string{"A": keysA, "B": keysB} {
		if dup := firstDuplicate(keys); dup != "" {
			return &errors.InvalidKeySpecError{
				LeftKeys:  keysA,
				RightKeys: keysB,
				Message:   fmt.Sprintf("key column %q is listed twice for side %s", dup, side),
			}
		}
	}
	return nil
}

// validateColumns reports every requested column absent from its side, both sides
// together.
func validateColumns(a, b *dataset.Dataset, namesA, namesB []string, role string) error {
	missingA := missing(a, namesA)
	missingB := missing(b, namesB)
	if len(missingA) == 0 && len(missingB) == 0 {
		return nil
	}
	return &errors.MissingColumnError{MissingA: missingA, MissingB: missingB, Role: role}
}

func missing(ds *dataset.Dataset, names []string) []string {
	var out []string
	for _, n := range names {
		if !ds.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}

func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return ""
}

// projection returns the keys followed by the retained columns, without repeats.
func projection(keys, keep []string) []string {
	seen := make(map[string]bool, len(keys)+len(keep))
	out := make([]string, 0, len(keys)+len(keep))
	for _, lists := range [][]string{keys, keep} {
		for _, n := range lists {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// checkCardinality rejects duplicate keys on a side declared unique.
func checkCardinality(mode Cardinality, left, right *keyIndex) error {
	if mode.leftUnique() {
		if k, dup := left.firstDuplicate(); dup {
			return &errors.CardinalityViolationError{Expected: mode.label(), Side: "left", Key: left.display(k)}
		}
	}
	if mode.rightUnique() {
		if k, dup := right.firstDuplicate(); dup {
			return &errors.CardinalityViolationError{Expected: mode.label(), Side: "right", Key: right.display(k)}
		}
	}
	return nil
}
