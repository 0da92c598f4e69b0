package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storesync-api/internal/application/auth"
	"github.com/jhoicas/storesync-api/internal/application/syncjob"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
	"github.com/jhoicas/storesync-api/internal/infrastructure/notify"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	Stores    repository.StoreRepository
	Runner    *syncjob.Runner
	Board     *notify.StatusBoard
	Log       *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stores (protegido, solo lectura)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.Stores)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.Get)

	// Sync (protegido; disparar corridas requiere rol admin u operator)
	syncHandler := NewSyncHandler(deps.Stores, deps.Runner, deps.Board, deps.Log)
	stores.Post("/:id/sync", RequireRole(entity.RoleAdmin, entity.RoleOperator), syncHandler.Trigger)
	stores.Get("/:id/sync/status", syncHandler.Status)
}
