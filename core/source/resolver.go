package source

import (
	"context"
	"fmt"
	"os"
	"path"

	"data-reconciler/core/database"
	"data-reconciler/core/dataset"
	"data-reconciler/core/errors"
	"data-reconciler/core/ingest"
	"data-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Resolver turns dataset references into datasets.
// Concurrent resolutions of the same reference share one load; the shared dataset
// must be treated as read-only. A shared load is not cancelled by its callers, so
// slow sources are bounded by the storage client timeout instead.
type Resolver struct {
	loader *ingest.Loader
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
	group  singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStorage enables s3:// and object:// references. bucket is used for object://.
func WithStorage(client storage.Client, bucket string) Option {
	return func(r *Resolver) {
		r.client = client
		r.bucket = bucket
	}
}

// WithDatabase enables table:// references.
func WithDatabase(db *gorm.DB) Option {
	return func(r *Resolver) {
		r.db = db
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver reading files through loader.
func NewResolver(loader *ingest.Loader, opts ...Option) *Resolver {
	if loader == nil {
		loader = ingest.NewLoader()
	}
	r := &Resolver{loader: loader, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve loads the dataset that ref points at.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*dataset.Dataset, error) {
	parsed, err := Parse(ref)
	if err != nil {
		return nil, err
	}

	// The load runs detached from any single caller so that one caller giving up
	// does not fail the others waiting on the same reference. Each caller still
	// returns as soon as its own context is done.
	ch := r.group.DoChan(parsed.String(), func() (any, error) {
		return r.resolve(context.WithoutCancel(ctx), parsed)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.logger.Debug("Shared dataset resolution", zap.String("ref", ref))
		}
		return res.Val.(*dataset.Dataset), nil
	}
}

// ResolvePair loads both sides of a comparison concurrently.
func (r *Resolver) ResolvePair(ctx context.Context, refA, refB string) (*dataset.Dataset, *dataset.Dataset, error) {
	var a, b *dataset.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ds, err := r.Resolve(gctx, refA)
		if err != nil {
			return fmt.Errorf("dataset A: %w", err)
		}
		a = ds
		return nil
	})
	g.Go(func() error {
		ds, err := r.Resolve(gctx, refB)
		if err != nil {
			return fmt.Errorf("dataset B: %w", err)
		}
		b = ds
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (r *Resolver) resolve(ctx context.Context, ref Reference) (*dataset.Dataset, error) {
	switch ref.Scheme {
	case SchemeFile:
		return r.loader.Load(ref.Key)
	case SchemeS3:
		return r.fetch(ctx, ref, ref.Bucket)
	case SchemeObject:
		return r.fetch(ctx, ref, r.bucket)
	case SchemeTable:
		return r.table(ctx, ref)
	}
	return nil, fmt.Errorf("unknown reference scheme %q", ref.Scheme)
}

// fetch spools an object to a temporary file carrying the object's extension and
// loads it like a local file.
func (r *Resolver) fetch(ctx context.Context, ref Reference, bucket string) (*dataset.Dataset, error) {
	if r.client == nil {
		return nil, fmt.Errorf("object storage is not configured for %s", ref)
	}
	ext := path.Ext(ref.Key)
	if !r.loader.Supports(ref.Key) {
		return nil, &errors.UnsupportedFormatError{Path: ref.String(), Extension: ext}
	}

	tmp, err := os.CreateTemp("", "dataset-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := storage.Download(ctx, r.client, bucket, ref.Key, tmp)
	closeErr := tmp.Close()
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, &errors.FileNotFoundError{Path: ref.String(), Err: err}
		}
		return nil, errors.NewLoadError(ref.String(), ext, err)
	}
	if closeErr != nil {
		return nil, errors.NewLoadError(ref.String(), ext, closeErr)
	}
	r.logger.Debug("Object downloaded",
		zap.String("bucket", bucket),
		zap.String("key", ref.Key),
		zap.Int64("bytes", n))

	ds, err := r.loader.Load(tmp.Name())
	if err != nil {
		return nil, relabel(err, ref.String())
	}
	ds.Name = ref.Name()
	return ds, nil
}

func (r *Resolver) table(ctx context.Context, ref Reference) (*dataset.Dataset, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database is not configured for %s", ref)
	}
	if !database.ValidTableName(ref.Key) {
		return nil, fmt.Errorf("invalid table name %q", ref.Key)
	}
	cols, err := database.GetTableColumns(r.db.WithContext(ctx), ref.Key)
	if err != nil {
		return nil, errors.NewLoadError(ref.String(), "table", err)
	}
	if len(cols) == 0 {
		return nil, &errors.FileNotFoundError{Path: ref.String()}
	}

	ds, err := database.ReadTable(ctx, r.db, ref.Key)
	if err != nil {
		return nil, errors.NewLoadError(ref.String(), "table", err)
	}
	return ds, nil
}

// relabel replaces the spool file path in load errors with the reference.
func relabel(err error, ref string) error {
	var le *errors.LoadError
	if errors.As(err, &le) {
		out := *le
		out.Path = ref
		return &out
	}
	var ue *errors.UnsupportedJSONStructureError
	if errors.As(err, &ue) {
		out := *ue
		out.Path = ref
		return &out
	}
	return err
}
