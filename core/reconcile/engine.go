package reconcile

import (
	"fmt"
	"sort"

	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"
)

// pair is one merged row: a left and a right row position, -1 when absent.
type pair struct {
	left, right int
}

func (p pair) origin() Origin {
	switch {
	case p.left >= 0 && p.right >= 0:
		return OriginBoth
	case p.left >= 0:
		return OriginLeftOnly
	default:
		return OriginRightOnly
	}
}

// outColumn is one merged column fed from the left column, the right column, or
// both when a shared key name is coalesced.
type outColumn struct {
	name        string
	left, right *dataset.Column
}

// Compare performs a full outer join of a and b on the paired key columns and
// returns the merged dataset with its origin views. Neither input is modified.
func Compare(a, b *dataset.Dataset, keysA, keysB []string, opts Options) (*Result, error) {
	if err := validateKeySpec(keysA, keysB); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("both datasets are required")
	}
	if err := validateColumns(a, b, keysA, keysB, "key"); err != nil {
		return nil, err
	}
	if err := validateColumns(a, b, opts.KeepA, opts.KeepB, "keep"); err != nil {
		return nil, err
	}
	mode, err := ParseCardinality(opts.Validate)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	left, err := project(a, keysA, opts.KeepA)
	if err != nil {
		return nil, err
	}
	right, err := project(b, keysB, opts.KeepB)
	if err != nil {
		return nil, err
	}

	li, ri := buildIndices(left, right, keysA, keysB, opts.Normalize, opts.Parallel)
	if err := checkCardinality(mode, li, ri); err != nil {
		return nil, err
	}

	layout, err := planLayout(left, right, keysA, keysB, opts)
	if err != nil {
		return nil, err
	}

	pairs := join(li, ri)
	if opts.SortKeys {
		sortPairs(pairs, li.cols, ri.cols)
	}
	return assemble(layout, pairs, a.NumRows(), b.NumRows(), opts.Indicator)
}

// project narrows ds to its keys followed by keep. A nil keep list retains every
// column.
func project(ds *dataset.Dataset, keys, keep []string) (*dataset.Dataset, error) {
	if keep == nil {
		return ds, nil
	}
	return ds.Select(projection(keys, keep)...)
}

// join pairs every left row with each right row of equal key, in left order, then
// appends the unmatched right rows in right order.
func join(li, ri *keyIndex) []pair {
	pairs := make([]pair, 0, len(li.keys)+len(ri.keys))
	matched := make([]bool, len(ri.keys))
	for l, k := range li.keys {
		rows := ri.rows[k]
		if len(rows) == 0 {
			pairs = append(pairs, pair{left: l, right: -1})
			continue
		}
		for _, r := range rows {
			pairs = append(pairs, pair{left: l, right: r})
			matched[r] = true
		}
	}
	for r, ok := range matched {
		if !ok {
			pairs = append(pairs, pair{left: -1, right: r})
		}
	}
	return pairs
}

// sortPairs orders pairs by their key values, taken from the left row when
// present. Missing keys sort last.
func sortPairs(pairs []pair, leftKeys, rightKeys []*dataset.Column) {
	keyAt := func(p pair, i int) any {
		if p.left >= 0 {
			return leftKeys[i].Values[p.left]
		}
		return rightKeys[i].Values[p.right]
	}
	sort.SliceStable(pairs, func(x, y int) bool {
		for i := range leftKeys {
			vx, vy := keyAt(pairs[x], i), keyAt(pairs[y], i)
			if vx == nil || vy == nil {
				if vx == nil && vy == nil {
					continue
				}
				return vy == nil
			}
			if c := dataset.Compare(vx, vy); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// planLayout names the merged columns: left columns first, then right columns,
// with a right key coalesced into the left key of the same name.
func planLayout(left, right *dataset.Dataset, keysA, keysB []string, opts Options) ([]outColumn, error) {
	leftKeys := make(map[string]bool, len(keysA))
	for _, k := range keysA {
		leftKeys[k] = true
	}
	coalesced := make(map[string]bool, len(keysB))
	for i, k := range keysB {
		if keysA[i] == k {
			coalesced[k] = true
		}
	}

	rightNames := make(map[string]bool, right.NumCols())
	for _, n := range right.ColumnNames() {
		if !coalesced[n] {
			rightNames[n] = true
		}
	}

	layout := make([]outColumn, 0, left.NumCols()+right.NumCols())
	for _, c := range left.Columns() {
		out := outColumn{name: c.Name, left: c}
		switch {
		case coalesced[c.Name]:
			out.right = right.Column(c.Name)
		case !leftKeys[c.Name] && rightNames[c.Name]:
			out.name = c.Name + opts.Suffixes[0]
		}
		layout = append(layout, out)
	}
	for _, c := range right.Columns() {
		if coalesced[c.Name] {
			continue
		}
		out := outColumn{name: c.Name, right: c}
		if left.HasColumn(c.Name) {
			out.name = c.Name + opts.Suffixes[1]
		}
		layout = append(layout, out)
	}

	seen := make(map[string]bool, len(layout)+1)
	for _, c := range append(layout, outColumn{name: opts.Indicator}) {
		if seen[c.name] {
			return nil, &errors.InvalidKeySpecError{
				LeftKeys:  keysA,
				RightKeys: keysB,
				Message:   fmt.Sprintf("merged column name %q is ambiguous; choose different suffixes or indicator", c.name),
			}
		}
		seen[c.name] = true
	}
	return layout, nil
}

// assemble materializes the merged dataset and its views.
func assemble(layout []outColumn, pairs []pair, leftRows, rightRows int, indicator string) (*Result, error) {
	cols := make([]*dataset.Column, 0, len(layout)+1)
	for _, oc := range layout {
		values := make([]any, len(pairs))
		for i, p := range pairs {
			switch {
			case oc.left != nil && p.left >= 0:
				values[i] = oc.left.Values[p.left]
			case oc.right != nil && p.right >= 0:
				values[i] = oc.right.Values[p.right]
			}
		}
		cols = append(cols, mergedColumn(oc, values))
	}

	origins := make([]Origin, len(pairs))
	tags := make([]any, len(pairs))
	groups := make(map[Origin][]int, 3)
	for i, p := range pairs {
		o := p.origin()
		origins[i] = o
		tags[i] = string(o)
		groups[o] = append(groups[o], i)
	}
	cols = append(cols, dataset.NewColumn(indicator, dataset.KindString, tags))

	merged, err := dataset.New(ViewMerged, cols...)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Merged:    merged,
		Matches:   view(merged, ViewMatches, groups[OriginBoth]),
		LeftOnly:  view(merged, ViewLeftOnly, groups[OriginLeftOnly]),
		RightOnly: view(merged, ViewRightOnly, groups[OriginRightOnly]),
		Origins:   origins,
	}
	res.Summary = Summary{
		LeftRows:  leftRows,
		RightRows: rightRows,
		Merged:    merged.NumRows(),
		Matches:   res.Matches.NumRows(),
		LeftOnly:  res.LeftOnly.NumRows(),
		RightOnly: res.RightOnly.NumRows(),
	}
	return res, nil
}

func mergedColumn(oc outColumn, values []any) *dataset.Column {
	switch {
	case oc.right == nil:
		return dataset.NewColumn(oc.name, oc.left.Kind, values)
	case oc.left == nil:
		return dataset.NewColumn(oc.name, oc.right.Kind, values)
	case oc.left.Kind == oc.right.Kind:
		return dataset.NewColumn(oc.name, oc.left.Kind, values)
	default:
		return dataset.NewColumnFromValues(oc.name, values)
	}
}

func view(merged *dataset.Dataset, name string, rows []int) *dataset.Dataset {
	if rows == nil {
		rows = []int{}
	}
	ds := merged.Take(rows)
	ds.Name = name
	return ds
}
