package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/deduction"
)

type DeductionResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Quantity    int       `json:"quantity_deducted"`
	Timestamp   time.Time `json:"deduction_timestamp"`
}

type DeductionHandler struct {
	repo deduction.Repository
}

func NewDeductionHandler(repo deduction.Repository) *DeductionHandler {
	return &DeductionHandler{repo: repo}
}

func (h *DeductionHandler) RegisterRoutes(router chi.Router) {
	router.Get("/warehouses/{id}/deductions", h.handleListByWarehouse)
}

// handleListByWarehouse отдаёт журнал списаний склада в порядке записи.
func (h *DeductionHandler) handleListByWarehouse(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	warehouseID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("warehouse_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	records, err := h.repo.ListByWarehouse(r.Context(), warehouseID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list deductions")
		respondWithError(w, http.StatusInternalServerError, "Failed to list deductions")
		return
	}

	responsePayload := make([]DeductionResponse, 0, len(records))
	for _, rec := range records {
		responsePayload = append(responsePayload, DeductionResponse{
			ID:          rec.ID,
			OrderID:     rec.OrderID,
			ProductID:   rec.ProductID,
			ProductName: rec.ProductName,
			WarehouseID: rec.WarehouseID,
			Quantity:    rec.Quantity,
			Timestamp:   rec.Timestamp,
		})
	}
	respondWithJSON(w, http.StatusOK, responsePayload)
}
