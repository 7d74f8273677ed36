package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/EMNTV/excellencemedianumerique/internal/cache"
	"github.com/EMNTV/excellencemedianumerique/internal/common"
	"github.com/EMNTV/excellencemedianumerique/internal/config"
	"github.com/EMNTV/excellencemedianumerique/internal/filex"
	"github.com/EMNTV/excellencemedianumerique/internal/logging"
	"github.com/EMNTV/excellencemedianumerique/internal/media/store"
	"github.com/EMNTV/excellencemedianumerique/internal/persistence"
	"github.com/EMNTV/excellencemedianumerique/internal/uploads"

	_ "modernc.org/sqlite"
)

// App owns the HTTP server and everything behind it.
type App struct {
	config *config.Config
	logger logging.Logger
	fiber  *fiber.App
	store  *store.Store

	closers []func() error
}

// NewApp wires logger, cache backend, remote host, persistence, store
// and the fiber application. The initial document load happens in Run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(parseLevel(cfg.LogLevel))

	app := &App{config: cfg, logger: logger}

	c, err := app.buildCache(ctx)
	if err != nil {
		return nil, err
	}

	host, err := persistence.NewS3Host(ctx, persistence.S3Config{
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		ObjectKey:     common.DocumentObjectKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("remote host init: %w", err)
	}

	uploader, err := uploads.NewS3Uploader(ctx, uploads.S3Config{
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("uploader init: %w", err)
	}

	persister := persistence.New(persistence.WithTimeout(host, cfg.RemoteTimeout), c, logger)
	app.store = store.New(persister, logger)

	images := uploads.NewImageGateway(uploader, logger)

	f := fiber.New(fiber.Config{
		AppName:   "Excellence Media Numerique API",
		BodyLimit: common.MaxUploadSize + 1<<20, // multipart overhead
	})
	f.Use(recover.New())
	f.Use(requestid.New())
	f.Use(cors.New())

	f.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	NewHandler(app.store, images, logger).Register(f)
	app.fiber = f

	return app, nil
}

func (app *App) buildCache(ctx context.Context) (cache.Cache, error) {
	cfg := app.config
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		app.closers = append(app.closers, rc.Close)
		return rc, nil
	case config.CacheBackendMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheBackendSQLite:
		dir, err := filex.EnsureSubDir(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
		db, err := cache.InitSQLite(ctx, filepath.Join(dir, "cache.db"))
		if err != nil {
			return nil, fmt.Errorf("cache init: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		return cache.NewSQLiteCache(db), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

// Run loads the document, starts serving and blocks until the context
// is cancelled or a signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	// Whatever tier answers, the store always comes up with a usable
	// document.
	source, err := app.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	app.logger.Info(ctx, "starting server", "addr", app.config.HTTPAddr, "source", source)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.fiber.Listen(app.config.HTTPAddr); err != nil {
			app.logger.Error(ctx, "listen failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.fiber.ShutdownWithContext(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown failed", "error", err)
	}
	wg.Wait()

	for _, closeFn := range app.closers {
		if err := closeFn(); err != nil {
			app.logger.Warn(ctx, "close failed", "error", err)
		}
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
