package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/developia-II/langobridge/internal/backend"
	"github.com/developia-II/langobridge/internal/backend/docstore"
	"github.com/developia-II/langobridge/internal/backend/rest"
	"github.com/developia-II/langobridge/internal/config"
	"github.com/developia-II/langobridge/internal/database"
	"github.com/developia-II/langobridge/internal/handlers"
	"github.com/developia-II/langobridge/internal/history"
	"github.com/developia-II/langobridge/internal/notify"
	"github.com/developia-II/langobridge/internal/services"
	"github.com/developia-II/langobridge/internal/session"
	"github.com/developia-II/langobridge/internal/storage"
	"github.com/developia-II/langobridge/internal/suggest"
	"github.com/developia-II/langobridge/internal/vocabulary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	var log *zap.Logger
	if cfg.Env == "development" {
		log, _ = zap.NewDevelopment()
	} else {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backend
	var api backend.Backend
	switch cfg.Backend.Kind {
	case config.BackendDocStore:
		db, err := database.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer database.Disconnect(db)

		api = docstore.New(db, docstore.Options{
			JWTSecret: cfg.Auth.JWTSecret,
			TokenTTL:  cfg.Auth.TokenTTL,
			ResetTTL:  cfg.Auth.ResetTTL,
		}, log)
	default:
		api = rest.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, log)
	}

	// Client core
	local, err := storage.OpenFile(cfg.App.StoragePath, log)
	if err != nil {
		log.Fatal("failed to open local storage", zap.Error(err))
	}
	feed := notify.NewFeed(log)

	sessions := session.New(api, local, feed, cfg.Auth.CheckInterval, log)
	go sessions.Run(ctx)

	store := vocabulary.New(api, sessions, local, feed, cfg.App.PageSize, log)

	var providers []services.Translator
	if cfg.Translate.URL != "" {
		providers = append(providers, services.NewEndpoint(cfg.Translate.URL, cfg.Translate.UserAgent))
	}
	if cfg.Translate.MyMemory {
		providers = append(providers, services.NewMyMemory())
	}
	gateway := services.NewGateway(cfg.Translate.Timeout, log, providers...)

	var examples suggest.ExampleGenerator
	if cfg.AIEnabled() {
		examples = services.NewExampleService(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	}
	engine := suggest.New(store, gateway, examples, feed, cfg.App.Debounce, log)
	defer engine.Close()

	if err := store.Fetch(ctx, 1, ""); err != nil {
		log.Warn("initial fetch skipped", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Server.RateLimit,
		Expiration: 1 * time.Minute,
	}))

	// Routes
	h := handlers.New(handlers.Deps{
		Store:    store,
		Sessions: sessions,
		Engine:   engine,
		History:  history.New(local, log),
		Feed:     feed,
		Examples: examples,
		Log:      log,
	})
	h.Register(app.Group("/api/v1"))

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	log.Info("server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.Kind),
		zap.Bool("ai", cfg.AIEnabled()),
		zap.Int("translators", len(providers)))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
