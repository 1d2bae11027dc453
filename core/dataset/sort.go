package dataset

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"time"

	"data-reconciler/core/utils"
)

// SortBy reorders the dataset's rows in place by the named columns. It exists for
// presentation ordering only. Missing values sort last regardless of direction,
// and the sort is stable.
func (d *Dataset) SortBy(names []string, descending bool) error {
	cols := make([]*Column, len(names))
	for i, n := range names {
		c := d.Column(n)
		if c == nil {
			return fmt.Errorf("column %q not found", n)
		}
		cols[i] = c
	}

	order := make([]int, d.rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for _, c := range cols {
			va, vb := c.Values[order[a]], c.Values[order[b]]
			if va == nil || vb == nil {
				if va == nil && vb == nil {
					continue
				}
				return vb == nil
			}
			r := Compare(va, vb)
			if r == 0 {
				continue
			}
			if descending {
				return r > 0
			}
			return r < 0
		}
		return false
	})

	for _, c := range d.columns {
		values := make([]any, len(c.Values))
		for i, idx := range order {
			values[i] = c.Values[idx]
		}
		c.Values = values
	}
	return nil
}

// Compare orders two non-missing cell values. Numbers compare numerically across
// integer and float; values of unrelated types compare by kind, then by text.
func Compare(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	}
	fa, aNum := numeric(a)
	fb, bNum := numeric(b)
	if aNum && bNum {
		return cmp.Compare(fa, fb)
	}
	ka, kb := DetectKind([]any{a}), DetectKind([]any{b})
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	return strings.Compare(utils.ToString(a), utils.ToString(b))
}

func numeric(v any) (float64, bool) {
	switch v.(type) {
	case int64, float64:
		return utils.ToFloat64(v)
	}
	return 0, false
}
