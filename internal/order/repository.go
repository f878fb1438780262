package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/inventory-management-system/internal/deduction"
	"github.com/vasiliy-maslov/inventory-management-system/internal/stock"
)

// Сколько раз транзакция аллокации повторяется при deadlock/serialization
// abort, прежде чем наружу уйдёт ErrConcurrencyConflict.
const maxAllocationAttempts = 3

type Repository interface {
	CreateWithAllocation(ctx context.Context, o *Order, ranked []uuid.UUID) ([]deduction.Record, error)
	List(ctx context.Context) ([]Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// CreateWithAllocation сохраняет заказ с позициями и списывает под него
// остатки в ОДНОЙ транзакции: либо коммитятся заказ, позиции, все
// списания и записи журнала, либо ничего. Это закрывает дефект исходного
// поведения, где заказ мог закоммититься без успешной аллокации.
func (r *postgresRepository) CreateWithAllocation(ctx context.Context, o *Order, ranked []uuid.UUID) ([]deduction.Record, error) {
	var records []deduction.Record
	var err error

	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		records, err = r.createOnce(ctx, o, ranked)
		if err == nil {
			return records, nil
		}
		if !isRetryableTxError(err) {
			return nil, err
		}
		log.Warn().Err(err).Int("attempt", attempt).Stringer("order_id", o.ID).
			Msg("repository: allocation transaction aborted, retrying")
	}

	log.Error().Err(err).Stringer("order_id", o.ID).Msg("repository: allocation retry budget exhausted")
	return nil, ErrConcurrencyConflict
}

func (r *postgresRepository) createOnce(ctx context.Context, o *Order, ranked []uuid.UUID) (records []deduction.Record, err error) {
	if o.ID == uuid.Nil {
		genID, genErr := uuid.NewV4()
		if genErr != nil {
			return nil, fmt.Errorf("repository: failed to generate order id: %w", genErr)
		}
		o.ID = genID
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (order_id, email, mobile_no, address, zipcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, o.ID, o.Email, o.MobileNo, o.Address, o.Zipcode, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]

		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			return nil, fmt.Errorf("repository: failed to generate order item id: %w", genErr)
		}
		item.ID = itemID
		item.OrderID = o.ID
		item.CreatedAt = now

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_item_id, order_id, product_id, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, item.ProductID)
			}
			return nil, fmt.Errorf("repository: failed to insert order item for order %s: %w", o.ID, err)
		}
	}

	records, err = Allocate(ctx, &txStockSource{tx: tx}, o, ranked)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if err = deduction.InsertTx(ctx, tx, &records[i]); err != nil {
			return nil, fmt.Errorf("repository: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit order transaction: %w", err)
	}
	return records, nil
}

// txStockSource выполняет Claim через блокировку строки в рамках
// транзакции заказа.
type txStockSource struct {
	tx pgx.Tx
}

func (s *txStockSource) Claim(ctx context.Context, productID, warehouseID uuid.UUID, want int) (int, error) {
	return stock.ClaimTx(ctx, s.tx, productID, warehouseID, want)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgerrcode.IsTransactionRollback(pgErr.Code)
}

func (r *postgresRepository) List(ctx context.Context) ([]Order, error) {
	ordersQuery := `
		SELECT order_id, email, mobile_no, address, zipcode, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`
	orderRows, err := r.db.Query(ctx, ordersQuery)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer orderRows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for orderRows.Next() {
		var o Order
		if err := orderRows.Scan(&o.ID, &o.Email, &o.MobileNo, &o.Address, &o.Zipcode, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Items = make([]OrderItem, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}
	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsQuery := `
		SELECT order_item_id, order_id, product_id, quantity, created_at
		FROM order_items
		WHERE order_id = ANY($1)
	`
	itemRows, err := r.db.Query(ctx, itemsQuery, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item OrderItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if o, ok := ordersMap[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *ordersMap[id])
	}
	return result, nil
}
