package loader

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager(t *testing.T) {
	on := &stubFeature{name: "compare", enabled: true}
	off := &stubFeature{name: "datasets"}

	m := NewManager()
	m.Register(on)
	m.Register(off)
	assert.Len(t, m.Features(), 2)

	assert.NoError(t, m.LoadAll(fiber.New()))
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
}

func TestManagerErrors(t *testing.T) {
	m := NewManager()
	m.Register(&stubFeature{name: "broken", enabled: true, err: assert.AnError})
	err := m.LoadAll(fiber.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "broken")

	m = NewManager()
	m.Register(&stubFeature{name: "x", enabled: true})
	m.Register(&stubFeature{name: "x", enabled: true})
	assert.EqualError(t, m.LoadAll(fiber.New()), "feature x registered twice")
}
