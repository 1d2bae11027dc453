package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"data-reconciler/core/config"
	"data-reconciler/core/database"
	"data-reconciler/core/ingest"
	"data-reconciler/core/loader"
	"data-reconciler/core/logger"
	"data-reconciler/core/middleware/auth"
	"data-reconciler/core/middleware/rayid"
	"data-reconciler/core/source"
	"data-reconciler/core/storage"

	"data-reconciler/feature/compare"
	"data-reconciler/feature/datasets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "data-reconciler/docs/swagger"
)

// @title Data Reconciler API
// @version 1.0
// @description API for loading tabular datasets and reconciling them on key columns.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		ingestLoader := ingest.NewLoader(ingest.WithLogger(logg))
		opts := []source.Option{
			source.WithLogger(logg),
			source.WithStorage(store, cfg.Storage.Bucket),
		}

		// The database only backs table:// sources, so it stays optional.
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, table sources disabled", zap.Error(err))
		} else {
			opts = append(opts, source.WithDatabase(db))
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}
		resolver := source.NewResolver(ingestLoader, opts...)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager()
		mgr.Register(compare.NewFeature(resolver, store, cfg.Storage, cfg.Compare, cfg.Server.Preview(), logg))
		mgr.Register(datasets.NewFeature(resolver, ingestLoader, store, cfg.Storage.Bucket, cfg.Server.Preview(), logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
