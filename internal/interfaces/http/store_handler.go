package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storesync-api/internal/application/dto"
	"github.com/jhoicas/storesync-api/internal/domain/entity"
	"github.com/jhoicas/storesync-api/internal/domain/repository"
)

// StoreHandler expone lectura de las tiendas configuradas.
type StoreHandler struct {
	stores repository.StoreRepository
}

func NewStoreHandler(stores repository.StoreRepository) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// List godoc
// @Summary Listar tiendas
// @Description Devuelve las tiendas configuradas, sin credenciales
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StoreResponse
// @Router /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	stores, err := h.stores.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudieron listar las tiendas"})
	}
	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, storeResponse(s))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary Detalle de tienda
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la tienda"
// @Success 200 {object} dto.StoreResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/stores/{id} [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	store, err := h.stores.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo leer la tienda"})
	}
	if store == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STORE_NOT_FOUND", Message: "tienda no encontrada"})
	}
	return c.JSON(storeResponse(store))
}

func storeResponse(s *entity.Store) dto.StoreResponse {
	return dto.StoreResponse{
		ID:              s.ID,
		Name:            s.Name,
		Account:         s.Account,
		ERPCompany:      s.ERPCompany,
		LastCatalogSync: s.LastCatalogSync,
		LastOrderSync:   s.LastOrderSync,
	}
}
