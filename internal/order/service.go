package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/location"
	"github.com/vasiliy-maslov/inventory-management-system/internal/warehouse"
)

// WarehouseSource поставляет актуальный набор складов для ранжирования.
type WarehouseSource interface {
	GetAllWarehouses(ctx context.Context) ([]warehouse.Warehouse, error)
}

type Service interface {
	CreateOrder(ctx context.Context, o *Order) (*Order, error)
	GetAllOrders(ctx context.Context) ([]Order, error)
}

type service struct {
	repo       Repository
	warehouses WarehouseSource
	ranker     location.Ranker
}

func NewService(repo Repository, warehouses WarehouseSource, ranker location.Ranker) Service {
	return &service{
		repo:       repo,
		warehouses: warehouses,
		ranker:     ranker,
	}
}

// CreateOrder валидирует заказ, один раз запрашивает ранжирование складов
// (до любых стоковых блокировок) и отдаёт заказ на атомарное сохранение
// с аллокацией.
func (s *service) CreateOrder(ctx context.Context, o *Order) (*Order, error) {
	if len(o.Items) == 0 {
		log.Warn().Msg("service: attempt to create order with no items")
		return nil, ErrNoItems
	}
	for i := range o.Items {
		item := &o.Items[i]
		if item.ProductID == uuid.Nil {
			return nil, ErrNilProduct
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
		item.ID = uuid.Nil
		item.OrderID = uuid.Nil
	}
	o.ID = uuid.Nil

	warehouses, err := s.warehouses.GetAllWarehouses(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch warehouses for ranking")
		return nil, fmt.Errorf("service: failed to fetch warehouses: %w", err)
	}

	candidates := make([]location.Candidate, 0, len(warehouses))
	for _, w := range warehouses {
		candidates = append(candidates, location.Candidate{ID: w.ID, Zipcode: w.Zipcode})
	}

	ranked, err := s.ranker.Rank(ctx, o.Zipcode, candidates)
	if err != nil {
		log.Warn().Err(err).Str("zipcode", o.Zipcode).Msg("service: proximity ranking failed, order not processed")
		return nil, fmt.Errorf("%w: %v", ErrRankerUnavailable, err)
	}

	records, err := s.repo.CreateWithAllocation(ctx, o, ranked)
	if err != nil {
		var insufficient *InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			log.Warn().Stringer("product_id", insufficient.ProductID).Int("short", insufficient.Remaining).
				Msg("service: order rejected, insufficient stock")
			return nil, err
		case errors.Is(err, ErrUnknownProduct), errors.Is(err, ErrConcurrencyConflict):
			return nil, err
		default:
			log.Error().Err(err).Msg("service: failed to create order in repository")
			return nil, fmt.Errorf("service: failed to create order: %w", err)
		}
	}

	log.Info().Stringer("order_id", o.ID).Int("items", len(o.Items)).Int("deductions", len(records)).
		Msg("service: order created and fully allocated")
	return o, nil
}

func (s *service) GetAllOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch orders in repository")
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}
	return orders, nil
}
