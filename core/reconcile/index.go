package reconcile

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"data-reconciler/core/dataset"
	"data-reconciler/core/utils"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keyIndex holds the encoded composite key of every row of one side.
type keyIndex struct {
	cols []*dataset.Column
	keys []string
	// rows maps an encoded key to its row positions in input order.
	rows map[string][]int
	// first maps an encoded key to the row where it first appears.
	first map[string]int
}

// buildIndex encodes the key columns of ds. Text keys are trimmed and lowercased
// when normalize is set; the dataset itself is left untouched.
func buildIndex(ds *dataset.Dataset, names []string, normalize bool) *keyIndex {
	idx := &keyIndex{
		cols:  make([]*dataset.Column, len(names)),
		keys:  make([]string, ds.NumRows()),
		rows:  make(map[string][]int),
		first: make(map[string]int),
	}
	for i, n := range names {
		idx.cols[i] = ds.Column(n)
	}

	var lower cases.Caser
	if normalize {
		lower = cases.Lower(language.Und)
	}

	var sb strings.Builder
	for r := range idx.keys {
		sb.Reset()
		for i, c := range idx.cols {
			if i > 0 {
				sb.WriteByte(0x1f)
			}
			v := c.Values[r]
			if s, ok := v.(string); ok && normalize && textual(c.Kind) {
				v = lower.String(strings.TrimSpace(s))
			}
			encodeValue(&sb, v)
		}
		k := sb.String()
		idx.keys[r] = k
		if _, ok := idx.first[k]; !ok {
			idx.first[k] = r
		}
		idx.rows[k] = append(idx.rows[k], r)
	}
	return idx
}

// buildIndices indexes both sides, concurrently when parallel is set.
func buildIndices(a, b *dataset.Dataset, keysA, keysB []string, normalize, parallel bool) (*keyIndex, *keyIndex) {
	if !parallel {
		return buildIndex(a, keysA, normalize), buildIndex(b, keysB, normalize)
	}

	var (
		left, right *keyIndex
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		left = buildIndex(a, keysA, normalize)
	}()
	go func() {
		defer wg.Done()
		right = buildIndex(b, keysB, normalize)
	}()
	wg.Wait()
	return left, right
}

func textual(k dataset.Kind) bool {
	return k == dataset.KindString || k == dataset.KindMixed
}

// encodeValue writes a type-tagged form of v. Integers and integral floats share
// one encoding so 2 and 2.0 match; missing values match each other.
func encodeValue(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("n")
	case string:
		sb.WriteString("s")
		sb.WriteString(strconv.Itoa(len(x)))
		sb.WriteByte(':')
		sb.WriteString(x)
	case bool:
		if x {
			sb.WriteString("b1")
		} else {
			sb.WriteString("b0")
		}
	case int64:
		sb.WriteString("i")
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		if math.IsNaN(x) {
			sb.WriteString("n")
			return
		}
		if i, ok := utils.ToInt64(x); ok {
			sb.WriteString("i")
			sb.WriteString(strconv.FormatInt(i, 10))
			return
		}
		sb.WriteString("f")
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case time.Time:
		sb.WriteString("t")
		sb.WriteString(x.UTC().Format(time.RFC3339Nano))
	default:
		s := utils.ToString(x)
		sb.WriteString("o")
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
}

// firstDuplicate returns the first key, in row order, that occurs more than once.
func (k *keyIndex) firstDuplicate() (string, bool) {
	for _, key := range k.keys {
		if len(k.rows[key]) > 1 {
			return key, true
		}
	}
	return "", false
}

// display renders the original key values of the first row holding key.
func (k *keyIndex) display(key string) string {
	r, ok := k.first[key]
	if !ok {
		return ""
	}
	parts := make([]string, len(k.cols))
	for i, c := range k.cols {
		v := c.Values[r]
		if v == nil {
			parts[i] = "<missing>"
			continue
		}
		parts[i] = utils.ToString(v)
	}
	return strings.Join(parts, ", ")
}
