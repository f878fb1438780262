// Package transport собирает HTTP-маршрутизатор сервиса: middleware,
// CORS и все обработчики поверх общего пула соединений.
package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasiliy-maslov/inventory-management-system/internal/config"
	"github.com/vasiliy-maslov/inventory-management-system/internal/deduction"
	"github.com/vasiliy-maslov/inventory-management-system/internal/handler"
	"github.com/vasiliy-maslov/inventory-management-system/internal/location"
	"github.com/vasiliy-maslov/inventory-management-system/internal/order"
	"github.com/vasiliy-maslov/inventory-management-system/internal/product"
	"github.com/vasiliy-maslov/inventory-management-system/internal/stock"
	"github.com/vasiliy-maslov/inventory-management-system/internal/warehouse"
)

// NewRouter связывает репозитории, сервисы и обработчики. Возвращённый
// роутер готов к передаче в http.Server.
func NewRouter(pool *pgxpool.Pool, cfg *config.Config) *chi.Mux {
	productRepository := product.NewRepository(pool)
	productService := product.NewService(productRepository)

	warehouseRepository := warehouse.NewRepository(pool)
	warehouseService := warehouse.NewService(warehouseRepository)

	stockRepository := stock.NewRepository(pool)
	stockService := stock.NewService(stockRepository)

	deductionRepository := deduction.NewRepository(pool)

	ranker := location.NewGoogleRanker(cfg.Google.APIKey, cfg.Google.BaseURL, cfg.Google.Timeout)
	places := location.NewPlacesClient(cfg.Google.APIKey, cfg.Google.BaseURL, cfg.Google.Timeout)

	orderRepository := order.NewRepository(pool)
	orderService := order.NewService(orderRepository, warehouseService, ranker)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		handler.NewProductHandler(productService).RegisterRoutes(r)
		handler.NewWarehouseHandler(warehouseService).RegisterRoutes(r)
		handler.NewStockHandler(stockService).RegisterRoutes(r)
		handler.NewOrderHandler(orderService).RegisterRoutes(r)
		handler.NewDeductionHandler(deductionRepository).RegisterRoutes(r)
		handler.NewPlacesHandler(places).RegisterRoutes(r)
	})

	return router
}
