package cmd

import (
	"fmt"

	"data-reconciler/core/config"
	"data-reconciler/core/database"
	"data-reconciler/core/ingest"
	"data-reconciler/core/source"
	"data-reconciler/core/storage"

	"go.uber.org/zap"
)

// newResolver builds a resolver for refs, connecting to object storage or the
// database only when a reference needs them.
func newResolver(cfg *config.Config, l *zap.Logger, refs ...string) (*source.Resolver, storage.Client, error) {
	var needStorage, needDB bool
	for _, ref := range refs {
		parsed, err := source.Parse(ref)
		if err != nil {
			return nil, nil, err
		}
		switch parsed.Scheme {
		case source.SchemeS3, source.SchemeObject:
			needStorage = true
		case source.SchemeTable:
			needDB = true
		}
	}

	opts := []source.Option{source.WithLogger(l)}
	var client storage.Client
	if needStorage {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		client = c
		opts = append(opts, source.WithStorage(client, cfg.Storage.Bucket))
	}
	if needDB {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("table sources need a database: %w", err)
		}
		opts = append(opts, source.WithDatabase(db))
	}
	return source.NewResolver(ingest.NewLoader(ingest.WithLogger(l)), opts...), client, nil
}
