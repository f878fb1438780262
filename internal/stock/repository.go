package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound         = errors.New("stock entry not found")
	ErrNegativeQuantity = errors.New("stock quantity cannot go negative")
)

type Repository interface {
	GetStock(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error)
	SetQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) (*Entry, error)
	AddOrAdjust(ctx context.Context, productID, warehouseID uuid.UUID, delta int) (*Entry, error)
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Entry, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetStock(ctx context.Context, productID, warehouseID uuid.UUID) (*Entry, error) {
	query := `
		SELECT stock_id, product_id, warehouse_id, quantity, created_at, updated_at
		FROM stock
		WHERE product_id = $1 AND warehouse_id = $2
	`
	var e Entry
	err := r.db.QueryRow(ctx, query, productID, warehouseID).
		Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.Quantity, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select stock for product %s in warehouse %s: %w", productID, warehouseID, err)
	}
	return &e, nil
}

func (r *postgresRepository) SetQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity int) (*Entry, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	query := `
		UPDATE stock
		SET quantity = $1, updated_at = $2
		WHERE product_id = $3 AND warehouse_id = $4
		RETURNING stock_id, product_id, warehouse_id, quantity, created_at, updated_at
	`
	var e Entry
	err := r.db.QueryRow(ctx, query, quantity, time.Now().UTC(), productID, warehouseID).
		Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.Quantity, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to set stock quantity for product %s in warehouse %s: %w", productID, warehouseID, err)
	}
	return &e, nil
}

// AddOrAdjust выполняет read-modify-write под блокировкой строки, чтобы
// конкурирующие корректировки не теряли друг друга.
func (r *postgresRepository) AddOrAdjust(ctx context.Context, productID, warehouseID uuid.UUID, delta int) (e *Entry, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Entry
	scanErr := tx.QueryRow(ctx,
		`SELECT stock_id, quantity, created_at FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
		productID, warehouseID,
	).Scan(&cur.ID, &cur.Quantity, &cur.CreatedAt)

	now := time.Now().UTC()

	switch {
	case errors.Is(scanErr, pgx.ErrNoRows):
		// Отрицательная дельта по несуществующей паре — контрактная ошибка.
		if delta < 0 {
			return nil, ErrNegativeQuantity
		}
		id, genErr := uuid.NewV4()
		if genErr != nil {
			return nil, fmt.Errorf("repository: failed to generate stock id: %w", genErr)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO stock (stock_id, product_id, warehouse_id, quantity, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			id, productID, warehouseID, delta, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to insert stock entry: %w", err)
		}
		e = &Entry{ID: id, ProductID: productID, WarehouseID: warehouseID, Quantity: delta, CreatedAt: now, UpdatedAt: now}
	case scanErr != nil:
		return nil, fmt.Errorf("repository: failed to select stock for adjust: %w", scanErr)
	default:
		newQuantity := cur.Quantity + delta
		if newQuantity < 0 {
			return nil, ErrNegativeQuantity
		}
		_, err = tx.Exec(ctx,
			`UPDATE stock SET quantity = $1, updated_at = $2 WHERE stock_id = $3`,
			newQuantity, now, cur.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to update stock entry: %w", err)
		}
		e = &Entry{ID: cur.ID, ProductID: productID, WarehouseID: warehouseID, Quantity: newQuantity, CreatedAt: cur.CreatedAt, UpdatedAt: now}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit stock adjust: %w", err)
	}
	return e, nil
}

func (r *postgresRepository) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT s.stock_id, s.product_id, s.warehouse_id, s.quantity, p.name, s.created_at, s.updated_at
		FROM stock s
		JOIN products p ON p.product_id = s.product_id
		WHERE s.warehouse_id = $1
		ORDER BY p.name
	`
	rows, err := r.db.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query stock for warehouse %s: %w", warehouseID, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.Quantity, &e.ProductName, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan stock entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating stock entries: %w", err)
	}
	return entries, nil
}

// ClaimTx атомарно списывает до want единиц с пары (product, warehouse) в
// рамках внешней транзакции. Возвращает фактически списанное количество;
// 0 — если записи нет или остаток пуст. Блокировка строки (FOR UPDATE)
// удерживает пару на время read-decide-write.
func ClaimTx(ctx context.Context, tx pgx.Tx, productID, warehouseID uuid.UUID, want int) (int, error) {
	if want <= 0 {
		return 0, nil
	}

	var stockID uuid.UUID
	var quantity int
	err := tx.QueryRow(ctx,
		`SELECT stock_id, quantity FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`,
		productID, warehouseID,
	).Scan(&stockID, &quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock stock row for product %s in warehouse %s: %w", productID, warehouseID, err)
	}
	if quantity <= 0 {
		return 0, nil
	}

	take := want
	if quantity < take {
		take = quantity
	}

	cmdTag, err := tx.Exec(ctx,
		`UPDATE stock SET quantity = quantity - $1, updated_at = $2 WHERE stock_id = $3`,
		take, time.Now().UTC(), stockID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deduct stock for product %s in warehouse %s: %w", productID, warehouseID, err)
	}
	if cmdTag.RowsAffected() != 1 {
		log.Warn().Stringer("stock_id", stockID).Msg("stock row vanished during claim")
		return 0, nil
	}
	return take, nil
}
