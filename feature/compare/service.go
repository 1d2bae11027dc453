package compare

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"data-reconciler/core/dataset"
	"data-reconciler/core/reconcile"
	"data-reconciler/core/source"
	"data-reconciler/core/storage"

	"go.uber.org/zap"
)

// Service runs comparisons between resolved datasets.
type Service struct {
	resolver *source.Resolver
	client   storage.Client
	storage  storage.Config
	defaults reconcile.Config
	preview  int
	logger   *zap.Logger
}

// NewService creates a new compare service.
func NewService(resolver *source.Resolver, client storage.Client, storageCfg storage.Config, defaults reconcile.Config, preview int, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		client:   client,
		storage:  storageCfg,
		defaults: defaults,
		preview:  preview,
		logger:   logger,
	}
}

// Compare resolves both datasets of req and reconciles them. id names the export
// folder when req.Export is set.
func (s *Service) Compare(ctx context.Context, req Request, id string) (*Response, error) {
	a, b, err := s.resolver.ResolvePair(ctx, req.A, req.B)
	if err != nil {
		return nil, err
	}

	res, err := reconcile.Compare(a, b, req.KeysA, req.KeysB, req.Options(s.defaults))
	if err != nil {
		return nil, err
	}
	s.logger.Info("Comparison finished",
		zap.String("a", req.A),
		zap.String("b", req.B),
		zap.Int("merged", res.Summary.Merged),
		zap.Int("matches", res.Summary.Matches),
		zap.Int("left_only", res.Summary.LeftOnly),
		zap.Int("right_only", res.Summary.RightOnly))

	names := req.Views
	if len(names) == 0 {
		names = reconcile.Views()
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.preview
	}

	resp := &Response{
		StatusA: a.Summary(""),
		StatusB: b.Summary(""),
		Summary: res.Summary,
		Columns: res.Merged.ColumnNames(),
		Views:   make(map[string]dataset.Table, len(names)),
	}
	for _, name := range names {
		ds, err := res.View(name)
		if err != nil {
			return nil, err
		}
		resp.Views[ds.Name] = ds.Table(limit)
	}

	if req.Export {
		keys, err := s.export(ctx, res, id)
		if err != nil {
			return nil, err
		}
		resp.Exports = keys
	}
	return resp, nil
}

// export uploads every view as CSV below the configured export prefix.
func (s *Service) export(ctx context.Context, res *reconcile.Result, id string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	if err := storage.EnsureBucket(ctx, s.client, s.storage.Bucket, s.storage.Region); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(reconcile.Views()))
	for _, name := range reconcile.Views() {
		ds, _ := res.View(name)
		var buf bytes.Buffer
		if err := ds.WriteCSV(&buf); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		key := path.Join(s.storage.ExportPrefix, id, name+".csv")
		if _, err := storage.Upload(ctx, s.client, s.storage.Bucket, key, &buf, int64(buf.Len())); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	s.logger.Info("Comparison exported", zap.String("bucket", s.storage.Bucket), zap.Strings("keys", keys))
	return keys, nil
}
