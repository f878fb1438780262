package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/inventory-management-system/internal/handler"
	"github.com/vasiliy-maslov/inventory-management-system/internal/order"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetAllOrders(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func newOrderRouter(service order.Service) *chi.Mux {
	router := chi.NewRouter()
	handler.NewOrderHandler(service).RegisterRoutes(router)
	return router
}

func validCreateOrderRequest() handler.CreateOrderRequest {
	return handler.CreateOrderRequest{
		Email:    "buyer@example.com",
		MobileNo: "+15550001122",
		Address:  "1 Main St",
		Zipcode:  "94105",
		Items: []handler.OrderItemRequest{
			{ProductID: uuid.Must(uuid.NewV4()), Quantity: 2},
		},
	}
}

func postOrder(t *testing.T, router http.Handler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestOrderHandler_handleCreateOrder_Success(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	requestDTO := validCreateOrderRequest()
	orderID := uuid.Must(uuid.NewV4())

	mockService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.Email == requestDTO.Email &&
			o.Zipcode == requestDTO.Zipcode &&
			len(o.Items) == 1 &&
			o.Items[0].Quantity == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*order.Order).ID = orderID
	}).Return(&order.Order{
		ID:      orderID,
		Email:   requestDTO.Email,
		Zipcode: requestDTO.Zipcode,
		Items:   []order.OrderItem{{ProductID: requestDTO.Items[0].ProductID, Quantity: 2}},
	}, nil).Once()

	rr := postOrder(t, router, requestDTO)
	require.Equal(t, http.StatusCreated, rr.Code)

	var actualResponse handler.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actualResponse))
	assert.Equal(t, orderID, actualResponse.ID)
	require.Len(t, actualResponse.Items, 1)
	assert.Equal(t, 2, actualResponse.Items[0].Quantity)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleCreateOrder_ValidationFailed(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(dto *handler.CreateOrderRequest)
	}{
		{
			name:   "invalid email",
			mutate: func(dto *handler.CreateOrderRequest) { dto.Email = "not-an-email" },
		},
		{
			name:   "empty items",
			mutate: func(dto *handler.CreateOrderRequest) { dto.Items = []handler.OrderItemRequest{} },
		},
		{
			name: "zero quantity item",
			mutate: func(dto *handler.CreateOrderRequest) {
				dto.Items[0].Quantity = 0
			},
		},
		{
			name:   "missing zipcode",
			mutate: func(dto *handler.CreateOrderRequest) { dto.Zipcode = "" },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			router := newOrderRouter(mockService)

			requestDTO := validCreateOrderRequest()
			tc.mutate(&requestDTO)

			rr := postOrder(t, router, requestDTO)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			// Сервис не должен вызываться при невалидном запросе.
			mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderHandler_handleCreateOrder_ServiceErrors(t *testing.T) {
	productID := uuid.Must(uuid.NewV4())
	testCases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantInBody string
	}{
		{
			name:       "insufficient stock",
			serviceErr: &order.InsufficientStockError{ProductID: productID, Remaining: 3},
			wantStatus: http.StatusConflict,
			wantInBody: productID.String(),
		},
		{
			name:       "unknown product",
			serviceErr: order.ErrUnknownProduct,
			wantStatus: http.StatusBadRequest,
			wantInBody: "unknown product",
		},
		{
			name:       "ranker unavailable",
			serviceErr: order.ErrRankerUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantInBody: "ranking unavailable",
		},
		{
			name:       "concurrency conflict",
			serviceErr: order.ErrConcurrencyConflict,
			wantStatus: http.StatusServiceUnavailable,
			wantInBody: "concurrent orders",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			router := newOrderRouter(mockService)

			mockService.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, tc.serviceErr).Once()

			rr := postOrder(t, router, validCreateOrderRequest())
			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.wantInBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_handleGetAllOrders(t *testing.T) {
	mockService := new(MockOrderService)
	router := newOrderRouter(mockService)

	orders := []order.Order{
		{ID: uuid.Must(uuid.NewV4()), Email: "a@example.com"},
		{ID: uuid.Must(uuid.NewV4()), Email: "b@example.com"},
	}
	mockService.On("GetAllOrders", mock.Anything).Return(orders, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var actualResponse []handler.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actualResponse))
	require.Len(t, actualResponse, 2)
	assert.Equal(t, orders[0].ID, actualResponse[0].ID)
	mockService.AssertExpectations(t)
}
