package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("warehouse not found")

type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	List(ctx context.Context) ([]Warehouse, error)
	Update(ctx context.Context, w *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, w *Warehouse) error {
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	query := `
		INSERT INTO warehouses (warehouse_id, location, capacity, zipcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, w.ID, w.Location, w.Capacity, w.Zipcode, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert warehouse: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Warehouse, error) {
	query := `
		SELECT warehouse_id, location, capacity, zipcode, created_at, updated_at
		FROM warehouses
		WHERE warehouse_id = $1
	`
	var w Warehouse
	err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.Location, &w.Capacity, &w.Zipcode, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select warehouse by id %s: %w", id, err)
	}
	return &w, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Warehouse, error) {
	query := `
		SELECT warehouse_id, location, capacity, zipcode, created_at, updated_at
		FROM warehouses
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := make([]Warehouse, 0)
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Location, &w.Capacity, &w.Zipcode, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating warehouses: %w", err)
	}
	return warehouses, nil
}

func (r *postgresRepository) Update(ctx context.Context, w *Warehouse) error {
	query := `
		UPDATE warehouses
		SET location = $1, capacity = $2, zipcode = $3, updated_at = $4
		WHERE warehouse_id = $5
	`
	cmdTag, err := r.db.Exec(ctx, query, w.Location, w.Capacity, w.Zipcode, time.Now().UTC(), w.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update warehouse %s: %w", w.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM warehouses WHERE warehouse_id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete warehouse %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
