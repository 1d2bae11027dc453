package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferColumn(t *testing.T) {
	tests := []struct {
		name   string
		raw    []string
		kind   Kind
		values []any
	}{
		{"Int", []string{"1", "2", ""}, KindInt, []any{int64(1), int64(2), nil}},
		{"Float", []string{"1", "2.5", "NA"}, KindFloat, []any{float64(1), 2.5, nil}},
		{"Bool", []string{"True", "false"}, KindBool, []any{true, false}},
		{"Time", []string{"2024-01-02", ""}, KindTime, []any{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), nil}},
		{"String", []string{"1", "x"}, KindString, []any{"1", "x"}},
		{"AllMissing", []string{"", "null"}, KindString, []any{nil, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := InferColumn("c", tt.raw)
			assert.Equal(t, tt.kind, col.Kind)
			assert.Equal(t, tt.values, col.Values)
		})
	}
}

func TestUniqueNames(t *testing.T) {
	got := UniqueNames([]string{"a", "", "a", "b", "a"})
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "b", "a.2"}, got)
}
