package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/order"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

type CreateOrderRequest struct {
	Email    string             `json:"email" validate:"required,email"`
	MobileNo string             `json:"mobile_no" validate:"required"`
	Address  string             `json:"address" validate:"required"`
	Zipcode  string             `json:"zipcode" validate:"required"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Email     string              `json:"email"`
	MobileNo  string              `json:"mobile_no"`
	Address   string              `json:"address"`
	Zipcode   string              `json:"zipcode"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return OrderResponse{
		ID:        o.ID,
		Email:     o.Email,
		MobileNo:  o.MobileNo,
		Address:   o.Address,
		Zipcode:   o.Zipcode,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders", h.handleGetAllOrders)
}

// handleCreateOrder принимает заказ и атомарно размещает его по складам.
// Отказ по любой позиции отменяет заказ целиком.
func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	items := make([]order.OrderItem, 0, len(requestPayload.Items))
	for _, item := range requestPayload.Items {
		items = append(items, order.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	domainOrder := order.Order{
		Email:    requestPayload.Email,
		MobileNo: requestPayload.MobileNo,
		Address:  requestPayload.Address,
		Zipcode:  requestPayload.Zipcode,
		Items:    items,
	}

	created, err := h.service.CreateOrder(r.Context(), &domainOrder)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")

		var insufficient *order.InsufficientStockError
		var clientMessage string
		switch {
		case errors.As(err, &insufficient):
			clientMessage = insufficient.Error()
		case errors.Is(err, order.ErrUnknownProduct):
			clientMessage = "Order references unknown product"
		case errors.Is(err, order.ErrRankerUnavailable):
			clientMessage = "Warehouse ranking unavailable, try again later"
		case errors.Is(err, order.ErrConcurrencyConflict):
			clientMessage = "Order conflicts with concurrent orders, try again later"
		case errors.Is(err, order.ErrNoItems),
			errors.Is(err, order.ErrInvalidQuantity),
			errors.Is(err, order.ErrNilProduct):
			clientMessage = err.Error()
		default:
			clientMessage = "Failed to create order"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *OrderHandler) handleGetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAllOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	responsePayload := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responsePayload = append(responsePayload, toOrderResponse(&orders[i]))
	}
	respondWithJSON(w, http.StatusOK, responsePayload)
}
