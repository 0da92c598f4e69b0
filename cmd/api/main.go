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

	"github.com/jhoicas/storesync-api/internal/application/auth"
	"github.com/jhoicas/storesync-api/internal/application/ports"
	"github.com/jhoicas/storesync-api/internal/application/syncjob"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/infrastructure/assets"
	"github.com/jhoicas/storesync-api/internal/infrastructure/erpnova"
	"github.com/jhoicas/storesync-api/internal/infrastructure/notify"
	"github.com/jhoicas/storesync-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storesync-api/internal/infrastructure/shopify"
	httpRouter "github.com/jhoicas/storesync-api/internal/interfaces/http"
	"github.com/jhoicas/storesync-api/pkg/config"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		Dir:   cfg.App.LogDir,
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

	storeRepo := postgres.NewStoreRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	corrRepo := postgres.NewCorrespondenceRepository(pool)

	erpFactory := ports.ERPFactory(func(company int) ports.ERP {
		return erpnova.NewClient(company, cfg.ERP, log)
	})
	shopFactory := ports.ShopGatewayFactory(func(store *entity.Store) ports.ShopGateway {
		return shopify.NewGateway(store, cfg.Shopify, log)
	})
	assetStore := assets.NewDirStore(cfg.Sync.AssetDir)
	board := notify.NewStatusBoard()

	runner := syncjob.NewRunner(storeRepo, corrRepo, erpFactory, shopFactory, assetStore, board, log)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "StoreSync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Stores:    storeRepo,
		Runner:    runner,
		Board:     board,
		Log:       log,
		JWTSecret: cfg.JWT.Secret,
	})

	// Disparador periódico: una corrida regular por tienda cada intervalo.
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	if cfg.Sync.Enabled {
		go runScheduler(schedulerCtx, cfg.Sync.Interval, storeRepo, runner, log)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runScheduler dispara una corrida regular por cada tienda configurada en cada
// tick. Las tiendas con corrida en curso se saltan (el Runner lo garantiza).
func runScheduler(ctx context.Context, interval time.Duration, stores *postgres.StoreRepo, runner *syncjob.Runner, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("sincronización periódica activada")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sincronización periódica detenida")
			return
		case <-ticker.C:
			all, err := stores.List(ctx)
			if err != nil {
				log.Error().Err(err).Msg("listar tiendas para la corrida periódica")
				continue
			}
			for _, store := range all {
				if _, err := runner.Run(ctx, store.ID, entity.ModeRegular); err != nil {
					log.Error().Err(err).Str("store", store.ID).Msg("corrida periódica fallida")
				}
			}
		}
	}
}
