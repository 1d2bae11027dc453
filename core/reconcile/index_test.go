package reconcile

import (
	"math"
	"strings"
	"testing"
	"time"

	"data-reconciler/core/dataset"

	"github.com/stretchr/testify/assert"
)

func encoded(v any) string {
	var sb strings.Builder
	encodeValue(&sb, v)
	return sb.String()
}

func TestEncodeValue(t *testing.T) {
	assert.Equal(t, encoded(int64(2)), encoded(2.0))
	assert.NotEqual(t, encoded(int64(2)), encoded(2.5))
	assert.NotEqual(t, encoded("2"), encoded(int64(2)))
	assert.NotEqual(t, encoded("true"), encoded(true))
	assert.Equal(t, encoded(nil), encoded(nil))

	// 2^63 has no int64 form and must not wrap onto MinInt64.
	assert.NotEqual(t, encoded(int64(math.MinInt64)), encoded(math.Exp2(63)))
	assert.Equal(t, encoded(int64(math.MinInt64)), encoded(-math.Exp2(63)))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, encoded(ts), encoded(ts.In(time.FixedZone("x", 3600))))
}

func TestBuildIndexSeparatesComposites(t *testing.T) {
	// "a\x1fb"+"" and "a"+"b" must not collide.
	ds := dataset.MustNew("d", col("x", "a\x1fb", "a"), col("y", "", "\x1fb"))
	idx := buildIndex(ds, []string{"x", "y"}, false)
	assert.NotEqual(t, idx.keys[0], idx.keys[1])
	assert.Len(t, idx.rows, 2)
}

func TestBuildIndexNormalize(t *testing.T) {
	ds := dataset.MustNew("d", col("k", "  Alpha", "ALPHA ", "beta"))
	idx := buildIndex(ds, []string{"k"}, true)
	assert.Equal(t, idx.keys[0], idx.keys[1])
	assert.Equal(t, []int{0, 1}, idx.rows[idx.keys[0]])

	key, dup := idx.firstDuplicate()
	assert.True(t, dup)
	assert.Equal(t, "  Alpha", idx.display(key))
}
