package datasets

import (
	"data-reconciler/core/ingest"
	"data-reconciler/core/source"
	"data-reconciler/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Datasets feature.
func NewFeature(resolver *source.Resolver, loader *ingest.Loader, client storage.Client, bucket string, preview int, logger *zap.Logger) *Feature {
	svc := NewService(resolver, loader, client, bucket, preview, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "datasets"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
