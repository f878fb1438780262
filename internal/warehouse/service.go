package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var ErrEmptyZipcode = errors.New("warehouse zipcode cannot be empty")

type Service interface {
	AddWarehouse(ctx context.Context, w *Warehouse) (*Warehouse, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	GetAllWarehouses(ctx context.Context) ([]Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, details *Warehouse) (*Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddWarehouse(ctx context.Context, w *Warehouse) (*Warehouse, error) {
	// Без индекса склад не сможет участвовать в ранжировании по близости.
	if w.Zipcode == "" {
		return nil, ErrEmptyZipcode
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate warehouse id: %w", err)
	}
	w.ID = id

	if err := s.repo.Create(ctx, w); err != nil {
		log.Error().Err(err).Msg("service: failed to create warehouse in repository")
		return nil, fmt.Errorf("service: failed to create warehouse: %w", err)
	}

	log.Info().Stringer("warehouse_id", w.ID).Str("zipcode", w.Zipcode).Msg("service: warehouse created")
	return w, nil
}

func (s *service) GetWarehouse(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch warehouse: %w", err)
	}
	return w, nil
}

func (s *service) GetAllWarehouses(ctx context.Context) ([]Warehouse, error) {
	warehouses, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch warehouses in repository")
		return nil, fmt.Errorf("service: failed to fetch warehouses: %w", err)
	}
	return warehouses, nil
}

func (s *service) UpdateWarehouse(ctx context.Context, id uuid.UUID, details *Warehouse) (*Warehouse, error) {
	if details.Zipcode == "" {
		return nil, ErrEmptyZipcode
	}

	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch warehouse for update: %w", err)
	}

	w.Location = details.Location
	w.Capacity = details.Capacity
	w.Zipcode = details.Zipcode

	if err := s.repo.Update(ctx, w); err != nil {
		log.Error().Err(err).Stringer("warehouse_id", id).Msg("service: failed to update warehouse in repository")
		return nil, fmt.Errorf("service: failed to update warehouse: %w", err)
	}
	return w, nil
}

func (s *service) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("warehouse_id", id).Msg("service: failed to delete warehouse")
		return fmt.Errorf("service: failed to delete warehouse: %w", err)
	}
	log.Info().Stringer("warehouse_id", id).Msg("service: warehouse deleted")
	return nil
}
