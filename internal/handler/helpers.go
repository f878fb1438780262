package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/order"
	"github.com/vasiliy-maslov/inventory-management-system/internal/product"
	"github.com/vasiliy-maslov/inventory-management-system/internal/stock"
	"github.com/vasiliy-maslov/inventory-management-system/internal/warehouse"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// respondWithError отправляет JSON ошибку
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	var insufficient *order.InsufficientStockError
	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, warehouse.ErrNotFound),
		errors.Is(err, stock.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, product.ErrEmptyName),
		errors.Is(err, product.ErrNegativePrice),
		errors.Is(err, warehouse.ErrEmptyZipcode),
		errors.Is(err, stock.ErrNegativeQuantity),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrNilProduct),
		errors.Is(err, order.ErrUnknownProduct):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusConflict
	case errors.Is(err, order.ErrRankerUnavailable),
		errors.Is(err, order.ErrConcurrencyConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// formatValidationErrors переводит ошибки валидатора в плоскую карту
// поле -> короткое сообщение для клиента.
func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "field is required"
		case "email":
			message = "must be a valid email address"
		case "min":
			message = fmt.Sprintf("must be at least %s", fieldError.Param())
		case "gt":
			message = fmt.Sprintf("must be greater than %s", fieldError.Param())
		case "gte":
			message = fmt.Sprintf("must be %s or greater", fieldError.Param())
		default:
			message = fmt.Sprintf("failed validation on %s", fieldError.Tag())
		}
		details[fieldError.Field()] = message
	}
	return details
}

// decodeAndValidate разбирает тело запроса и прогоняет его через
// валидатор; при ошибке сам пишет ответ и возвращает false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload %v", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if ok {
			details := formatValidationErrors(validationErrors)
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: details,
			})
		} else {
			log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}
	return true
}
