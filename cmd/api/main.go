package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dalvarezq/frescura-api/internal/application/analytics"
	"github.com/dalvarezq/frescura-api/internal/application/catalog"
	"github.com/dalvarezq/frescura-api/internal/application/ledger"
	"github.com/dalvarezq/frescura-api/internal/application/scanner"
	"github.com/dalvarezq/frescura-api/internal/infrastructure/cache"
	"github.com/dalvarezq/frescura-api/internal/infrastructure/postgres"
	httpRouter "github.com/dalvarezq/frescura-api/internal/interfaces/http"
	"github.com/dalvarezq/frescura-api/pkg/config"
	"github.com/dalvarezq/frescura-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	restaurantRepo := postgres.NewRestaurantRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.NewUseCase(txRunner, batchRepo, restaurantRepo, categoryRepo)
	catalogUC := catalog.NewUseCase(txRunner, categoryRepo, locationRepo, restaurantRepo)
	analyticsUC := analytics.NewUseCase(eventRepo)

	// Cache de memoización del escaneo: memoria para una instancia, Redis
	// cuando hay varias réplicas detrás del balanceador.
	var scanCache scanner.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedis(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		scanCache = redisCache
	default:
		scanCache = cache.NewMemory()
	}
	expiryScanner := scanner.New(batchRepo, scanCache, cfg.Cache.ScanTTL, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Frescura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:    ledgerUC,
		CatalogUC:   catalogUC,
		AnalyticsUC: analyticsUC,
		Scanner:     expiryScanner,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
