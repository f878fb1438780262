package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/warehouse"
)

type CreateWarehouseRequest struct {
	Location string `json:"location" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=0"`
	Zipcode  string `json:"zipcode" validate:"required"`
}

type UpdateWarehouseRequest struct {
	Location string `json:"location" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=0"`
	Zipcode  string `json:"zipcode" validate:"required"`
}

type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	Zipcode   string    `json:"zipcode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Location:  w.Location,
		Capacity:  w.Capacity,
		Zipcode:   w.Zipcode,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type WarehouseHandler struct {
	service  warehouse.Service
	validate *validator.Validate
}

func NewWarehouseHandler(service warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *WarehouseHandler) RegisterRoutes(router chi.Router) {
	router.Post("/warehouses", h.handleAddWarehouse)
	router.Get("/warehouses", h.handleGetAllWarehouses)
	router.Get("/warehouses/{id}", h.handleGetWarehouse)
	router.Put("/warehouses/{id}", h.handleUpdateWarehouse)
	router.Delete("/warehouses/{id}", h.handleDeleteWarehouse)
}

func (h *WarehouseHandler) handleAddWarehouse(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateWarehouseRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	created, err := h.service.AddWarehouse(r.Context(), &warehouse.Warehouse{
		Location: requestPayload.Location,
		Capacity: requestPayload.Capacity,
		Zipcode:  requestPayload.Zipcode,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create warehouse via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create warehouse")
		return
	}

	respondWithJSON(w, http.StatusCreated, toWarehouseResponse(created))
}

func (h *WarehouseHandler) handleGetAllWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.GetAllWarehouses(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list warehouses via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list warehouses")
		return
	}

	responsePayload := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		responsePayload = append(responsePayload, toWarehouseResponse(&warehouses[i]))
	}
	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *WarehouseHandler) handleGetWarehouse(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	warehouseID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("warehouse_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	found, err := h.service.GetWarehouse(r.Context(), warehouseID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get warehouse via service")

		var clientMessage string
		if errors.Is(err, warehouse.ErrNotFound) {
			clientMessage = "Warehouse not found"
		} else {
			clientMessage = "Failed to get warehouse"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toWarehouseResponse(found))
}

func (h *WarehouseHandler) handleUpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	warehouseID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("warehouse_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload UpdateWarehouseRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updated, err := h.service.UpdateWarehouse(r.Context(), warehouseID, &warehouse.Warehouse{
		Location: requestPayload.Location,
		Capacity: requestPayload.Capacity,
		Zipcode:  requestPayload.Zipcode,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to update warehouse via service")

		var clientMessage string
		if errors.Is(err, warehouse.ErrNotFound) {
			clientMessage = "Warehouse not found"
		} else {
			clientMessage = "Failed to update warehouse"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toWarehouseResponse(updated))
}

func (h *WarehouseHandler) handleDeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	warehouseID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("warehouse_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.DeleteWarehouse(r.Context(), warehouseID); err != nil {
		log.Error().Err(err).Msg("Failed to delete warehouse via service")

		var clientMessage string
		if errors.Is(err, warehouse.ErrNotFound) {
			clientMessage = "Warehouse not found"
		} else {
			clientMessage = "Failed to delete warehouse"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
