package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storesync-api/internal/application/dto"
	"github.com/jhoicas/storesync-api/internal/application/syncjob"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
	"github.com/jhoicas/storesync-api/internal/infrastructure/notify"
	"github.com/jhoicas/storesync-api/pkg/logger"
)

// SyncHandler dispara corridas de sincronización y reporta su estado.
type SyncHandler struct {
	stores repository.StoreRepository
	runner *syncjob.Runner
	board  *notify.StatusBoard
	log    *logger.Logger
}

func NewSyncHandler(stores repository.StoreRepository, runner *syncjob.Runner, board *notify.StatusBoard, log *logger.Logger) *SyncHandler {
	return &SyncHandler{stores: stores, runner: runner, board: board, log: log}
}

// Trigger godoc
// @Summary Disparar sincronización
// @Description Lanza una corrida en segundo plano para la tienda indicada
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la tienda"
// @Param mode query string false "regular o full" default(regular)
// @Success 202 {object} dto.SyncStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/stores/{id}/sync [post]
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	storeID := c.Params("id")
	mode := c.Query("mode", entity.ModeRegular)
	if mode != entity.ModeRegular && mode != entity.ModeFull {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MODE", Message: "mode debe ser regular o full"})
	}

	store, err := h.stores.GetByID(c.Context(), storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo leer la tienda"})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STORE_NOT_FOUND", Message: "tienda no encontrada"})
	}
	if h.runner.IsRunning(storeID) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RUN_IN_PROGRESS", Message: "ya hay una corrida en curso para esta tienda"})
	}

	// La corrida sigue en segundo plano; el estado se consulta por /sync/status.
	go func() {
		if _, err := h.runner.Run(context.Background(), storeID, mode); err != nil {
			h.log.Error().Err(err).Str("store", storeID).Str("mode", mode).Msg("corrida disparada por API fallida")
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(dto.SyncStatusResponse{
		StoreID: storeID,
		Running: true,
		Status:  syncjob.StatusStarting,
	})
}

// Status godoc
// @Summary Estado de sincronización
// @Description Último estado conocido de la corrida de la tienda
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la tienda"
// @Success 200 {object} dto.SyncStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/stores/{id}/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	storeID := c.Params("id")

	store, err := h.stores.GetByID(c.Context(), storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo leer la tienda"})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STORE_NOT_FOUND", Message: "tienda no encontrada"})
	}

	resp := dto.SyncStatusResponse{
		StoreID: storeID,
		Running: h.runner.IsRunning(storeID),
	}
	if entry, ok := h.board.Last(storeID); ok {
		resp.Status = entry.Status
		updatedAt := entry.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return c.JSON(resp)
}
