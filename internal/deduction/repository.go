package deduction

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Record, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]Record, error) {
	query := `
		SELECT d.deduction_id, d.order_id, d.product_id, d.warehouse_id, d.quantity_deducted, d.deduction_timestamp, p.name
		FROM stock_deductions d
		JOIN products p ON p.product_id = d.product_id
		WHERE d.warehouse_id = $1
		ORDER BY d.deduction_timestamp, d.deduction_id
	`
	rows, err := r.db.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query deductions for warehouse %s: %w", warehouseID, err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.ProductID, &rec.WarehouseID, &rec.Quantity, &rec.Timestamp, &rec.ProductName); err != nil {
			return nil, fmt.Errorf("repository: failed to scan deduction record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating deduction records: %w", err)
	}
	return records, nil
}

// InsertTx добавляет запись журнала в рамках внешней транзакции. Записи
// появляются только как побочный эффект успешной аллокации, поэтому
// самостоятельного пути записи у пакета нет.
func InsertTx(ctx context.Context, tx pgx.Tx, rec *Record) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_deductions (deduction_id, order_id, product_id, warehouse_id, quantity_deducted, deduction_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.OrderID, rec.ProductID, rec.WarehouseID, rec.Quantity, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert deduction record for order %s: %w", rec.OrderID, err)
	}
	return nil
}
