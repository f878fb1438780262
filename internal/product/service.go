package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyName     = errors.New("product name cannot be empty")
	ErrNegativePrice = errors.New("product price cannot be negative")
)

type Service interface {
	AddProduct(ctx context.Context, p *Product) (*Product, error)
	GetAllProducts(ctx context.Context) ([]Product, error)
	UpdateProductDetails(ctx context.Context, id uuid.UUID, details *Product) (*Product, error)
	UpdateOverallQuantity(ctx context.Context, id uuid.UUID, delta int) (*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddProduct(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if p.Price < 0 {
		return nil, ErrNegativePrice
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate product id: %w", err)
	}
	p.ID = id

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Msg("service: failed to create product in repository")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Stringer("product_id", p.ID).Str("name", p.Name).Msg("service: product created")
	return p, nil
}

func (s *service) GetAllProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch products in repository")
		return nil, fmt.Errorf("service: failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *service) UpdateProductDetails(ctx context.Context, id uuid.UUID, details *Product) (*Product, error) {
	if details.Name == "" {
		return nil, ErrEmptyName
	}
	if details.Price < 0 {
		return nil, ErrNegativePrice
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch product for update: %w", err)
	}

	// Количество меняется только через UpdateOverallQuantity.
	p.Name = details.Name
	p.Price = details.Price

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to update product in repository")
		return nil, fmt.Errorf("service: failed to update product: %w", err)
	}
	return p, nil
}

func (s *service) UpdateOverallQuantity(ctx context.Context, id uuid.UUID, delta int) (*Product, error) {
	p, err := s.repo.AdjustOverallQuantity(ctx, id, delta)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to adjust product quantity")
		return nil, fmt.Errorf("service: failed to adjust product quantity: %w", err)
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product: %w", err)
	}
	log.Info().Stringer("product_id", id).Msg("service: product deleted")
	return nil
}
