package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/product"
)

type CreateProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	OverallQuantity int     `json:"overall_quantity" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type AdjustProductQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type ProductResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	OverallQuantity int       `json:"overall_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		OverallQuantity: p.OverallQuantity,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type ProductHandler struct {
	service  product.Service
	validate *validator.Validate
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Post("/products", h.handleAddProduct)
	router.Get("/products", h.handleGetAllProducts)
	router.Put("/products/{id}", h.handleUpdateProduct)
	router.Post("/products/{id}/quantity", h.handleAdjustQuantity)
	router.Delete("/products/{id}", h.handleDeleteProduct)
}

func (h *ProductHandler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	created, err := h.service.AddProduct(r.Context(), &product.Product{
		Name:            requestPayload.Name,
		Price:           requestPayload.Price,
		OverallQuantity: requestPayload.OverallQuantity,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, toProductResponse(created))
}

func (h *ProductHandler) handleGetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list products")
		return
	}

	responsePayload := make([]ProductResponse, 0, len(products))
	for i := range products {
		responsePayload = append(responsePayload, toProductResponse(&products[i]))
	}
	respondWithJSON(w, http.StatusOK, responsePayload)
}

func (h *ProductHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	productID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("product_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload UpdateProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updated, err := h.service.UpdateProductDetails(r.Context(), productID, &product.Product{
		Name:  requestPayload.Name,
		Price: requestPayload.Price,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to update product via service")

		var clientMessage string
		if errors.Is(err, product.ErrNotFound) {
			clientMessage = "Product not found"
		} else {
			clientMessage = "Failed to update product"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(updated))
}

func (h *ProductHandler) handleAdjustQuantity(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	productID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("product_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload AdjustProductQuantityRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updated, err := h.service.UpdateOverallQuantity(r.Context(), productID, requestPayload.Delta)
	if err != nil {
		log.Error().Err(err).Msg("Failed to adjust product quantity via service")

		var clientMessage string
		if errors.Is(err, product.ErrNotFound) {
			clientMessage = "Product not found"
		} else {
			clientMessage = "Failed to adjust product quantity"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, toProductResponse(updated))
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	productID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("product_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		log.Error().Err(err).Msg("Failed to delete product via service")

		var clientMessage string
		if errors.Is(err, product.ErrNotFound) {
			clientMessage = "Product not found"
		} else {
			clientMessage = "Failed to delete product"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
