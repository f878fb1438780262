package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	GetStock(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error)
	UpdateStockQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) (*Entry, error)
	AddOrUpdateStock(ctx context.Context, productID, warehouseID uuid.UUID, delta int) (*Entry, error)
	GetProductsByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Entry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetStock(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error) {
	e, err := s.repo.GetStock(ctx, productID, warehouseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch stock: %w", err)
	}
	return e, nil
}

// UpdateStockQuantity перезаписывает количество безусловно — это не дельта.
func (s *service) UpdateStockQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) (*Entry, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	e, err := s.repo.SetQuantity(ctx, productID, warehouseID, quantity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", productID).Stringer("warehouse_id", warehouseID).
			Msg("service: failed to set stock quantity")
		return nil, fmt.Errorf("service: failed to set stock quantity: %w", err)
	}

	log.Info().Stringer("product_id", productID).Stringer("warehouse_id", warehouseID).
		Int("quantity", e.Quantity).Msg("service: stock quantity updated")
	return e, nil
}

func (s *service) AddOrUpdateStock(ctx context.Context, productID, warehouseID uuid.UUID, delta int) (*Entry, error) {
	e, err := s.repo.AddOrAdjust(ctx, productID, warehouseID, delta)
	if err != nil {
		if errors.Is(err, ErrNegativeQuantity) {
			return nil, ErrNegativeQuantity
		}
		log.Error().Err(err).Stringer("product_id", productID).Stringer("warehouse_id", warehouseID).
			Msg("service: failed to adjust stock")
		return nil, fmt.Errorf("service: failed to adjust stock: %w", err)
	}

	log.Info().Stringer("product_id", productID).Stringer("warehouse_id", warehouseID).
		Int("quantity", e.Quantity).Msg("service: stock adjusted")
	return e, nil
}

func (s *service) GetProductsByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Entry, error) {
	entries, err := s.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch warehouse stock: %w", err)
	}
	return entries, nil
}
