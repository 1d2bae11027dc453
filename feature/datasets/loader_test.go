package datasets

import (
	"testing"

	"data-reconciler/core/ingest"
	"data-reconciler/core/source"
	"data-reconciler/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	loader := ingest.NewLoader()
	feature := NewFeature(source.NewResolver(loader), loader, new(mocks.Client), "datasets", 10, zap.NewNop())

	assert.Equal(t, "datasets", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
