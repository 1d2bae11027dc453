package server_test

import (
	"testing"

	"data-reconciler/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Configured", 64, 64 << 20},
		{"Zero", 0, 4 << 20},
		{"Negative", -1, 4 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{BodyLimitMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}

func TestConfig_Preview(t *testing.T) {
	assert.Equal(t, 25, server.Config{PreviewRows: 25}.Preview())
	assert.Equal(t, server.DefaultPreviewRows, server.Config{}.Preview())
}
