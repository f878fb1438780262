package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/stock"
)

type SetStockRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gte=0"`
}

type AdjustStockRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
	Delta       int       `json:"delta" validate:"required"`
}

type StockResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	ProductName string    `json:"product_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toStockResponse(e *stock.Entry) StockResponse {
	return StockResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Quantity:    e.Quantity,
		ProductName: e.ProductName,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type StockHandler struct {
	service  stock.Service
	validate *validator.Validate
}

func NewStockHandler(service stock.Service) *StockHandler {
	return &StockHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *StockHandler) RegisterRoutes(router chi.Router) {
	router.Put("/stock", h.handleSetQuantity)
	router.Post("/stock/adjust", h.handleAdjust)
	router.Get("/warehouses/{id}/stock", h.handleListByWarehouse)
}

// handleSetQuantity перезаписывает количество пары товар-склад.
func (h *StockHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var requestPayload SetStockRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	entry, err := h.service.UpdateStockQuantity(r.Context(), requestPayload.ProductID, requestPayload.WarehouseID, requestPayload.Quantity)
	if err != nil {
		log.Error().Err(err).Msg("Failed to set stock quantity via service")

		var clientMessage string
		switch {
		case errors.Is(err, stock.ErrNotFound):
			clientMessage = "Stock entry not found"
		case errors.Is(err, stock.ErrNegativeQuantity):
			clientMessage = "Stock quantity cannot be negative"
		default:
			clientMessage = "Failed to set stock quantity"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toStockResponse(entry))
}

// handleAdjust прибавляет дельту, создавая запись при первом поступлении.
func (h *StockHandler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var requestPayload AdjustStockRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	entry, err := h.service.AddOrUpdateStock(r.Context(), requestPayload.ProductID, requestPayload.WarehouseID, requestPayload.Delta)
	if err != nil {
		log.Error().Err(err).Msg("Failed to adjust stock via service")

		var clientMessage string
		if errors.Is(err, stock.ErrNegativeQuantity) {
			clientMessage = "Adjustment would make stock negative"
		} else {
			clientMessage = "Failed to adjust stock"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toStockResponse(entry))
}

func (h *StockHandler) handleListByWarehouse(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	warehouseID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("warehouse_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	entries, err := h.service.GetProductsByWarehouse(r.Context(), warehouseID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stock by warehouse via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list stock")
		return
	}

	responsePayload := make([]StockResponse, 0, len(entries))
	for i := range entries {
		responsePayload = append(responsePayload, toStockResponse(&entries[i]))
	}
	respondWithJSON(w, http.StatusOK, responsePayload)
}
