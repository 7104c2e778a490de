package container

import (
	"context"
	"fmt"
	"log"

	"gopnad/adapters/filestore"
	"gopnad/adapters/postgres"
	"gopnad/adapters/rawdata"
	"gopnad/app"
	"gopnad/internal/cache"
	"gopnad/internal/config"
	"gopnad/internal/errors"
	"gopnad/internal/fields"
	"gopnad/internal/metrics"
	"gopnad/internal/migration"
	"gopnad/internal/transform"
	"gopnad/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Metrics *metrics.Metrics

	// Data access
	Source   ports.RawSource
	Store    ports.ColumnStore
	Cache    *cache.Layered
	Catalogs fields.Catalogs

	// Services
	Transformer *transform.Transformer
	Loader      *app.LoaderService
	CacheAdmin  *app.CacheService
	Summary     *app.SummaryService
}

// New creates the dependency injection container and wires every component
// from cfg. The postgres backend connects and migrates the database.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:  cfg,
		Metrics: metrics.New(),
		Source:  rawdata.NewSource(cfg.Data.Dir, cfg.Data.ChunkSize),
	}

	if err := c.initCatalogs(); err != nil {
		return nil, err
	}
	if err := c.initStore(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	c.Cache = cache.NewLayered(cache.NewMemory(cfg.Cache.MemorySize), c.Store, c.Metrics)
	c.Transformer = transform.New(c.Source, c.Catalogs, c.Cache, c.Metrics)
	c.Loader = app.NewLoaderService(c.Transformer, c.Source, cfg.Data.Workers)
	c.CacheAdmin = app.NewCacheService(c.Cache)
	c.Summary = app.NewSummaryService(c.Loader)

	log.Printf("[Container] initialized: data=%s cache=%s memory=%d workers=%d",
		cfg.Data.Dir, cfg.Cache.Backend, cfg.Cache.MemorySize, cfg.Data.Workers)
	return c, nil
}

// initCatalogs builds the field catalogues and applies the optional fields file.
func (c *Container) initCatalogs() error {
	c.Catalogs = fields.Default()
	if c.Config.Data.FieldsFile == "" {
		return nil
	}
	if err := fields.LoadOverrides(c.Config.Data.FieldsFile, c.Catalogs); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("fields file %s: %w", c.Config.Data.FieldsFile, err))
	}
	log.Printf("[Container] applied field overrides from %s", c.Config.Data.FieldsFile)
	return nil
}

// initStore selects the persistent column store for the configured backend.
func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return nil
	case config.CacheFile:
		store, err := filestore.New(c.Config.Cache.Dir)
		if err != nil {
			return errors.Wrap(err, "failed to open file cache")
		}
		c.Store = store
		return nil
	case config.CachePostgres:
		db, err := Connect(ctx, c.Config.Database.URL)
		if err != nil {
			return err
		}
		c.DB = db
		c.Store = postgres.NewColumnStore(db)
		return nil
	}
	return errors.ConfigInvalid(fmt.Sprintf("unknown cache backend %q", c.Config.Cache.Backend))
}

// Connect opens the PostgreSQL database and brings its schema up to date.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to connect to database: %w", err))
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("database migration failed: %w", err))
	}
	return db, nil
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
