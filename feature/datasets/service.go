package datasets

import (
	"context"

	"data-reconciler/core/dataset"
	"data-reconciler/core/ingest"
	"data-reconciler/core/source"
	"data-reconciler/core/storage"

	"go.uber.org/zap"
)

// Inspection describes a loaded dataset.
type Inspection struct {
	// Status is the "<file> :: <rows> rows :: <cols> columns" line.
	Status  string               `json:"status"`
	Rows    int                  `json:"row_count"`
	Columns []dataset.ColumnInfo `json:"columns"`
	Preview dataset.Table        `json:"preview"`
}

// Service inspects datasets and lists what can be compared.
type Service struct {
	resolver *source.Resolver
	loader   *ingest.Loader
	client   storage.Client
	bucket   string
	preview  int
	logger   *zap.Logger
}

// NewService creates a new datasets service.
func NewService(resolver *source.Resolver, loader *ingest.Loader, client storage.Client, bucket string, preview int, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		loader:   loader,
		client:   client,
		bucket:   bucket,
		preview:  preview,
		logger:   logger,
	}
}

// Inspect resolves ref and returns its schema with a preview of limit rows.
// Zero uses the configured preview size.
func (s *Service) Inspect(ctx context.Context, ref string, limit int) (*Inspection, error) {
	ds, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = s.preview
	}
	return &Inspection{
		Status:  ds.Summary(""),
		Rows:    ds.NumRows(),
		Columns: ds.Schema(),
		Preview: ds.Table(limit),
	}, nil
}

// Formats returns the supported extension families.
func (s *Service) Formats() []ingest.Family {
	return ingest.Families()
}

// Objects lists the loadable objects below prefix in the dataset bucket.
func (s *Service) Objects(ctx context.Context, prefix string) ([]string, error) {
	keys, err := storage.List(ctx, s.client, s.bucket, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if s.loader.Supports(k) {
			out = append(out, k)
		}
	}
	return out, nil
}
