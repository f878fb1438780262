package order

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/vasiliy-maslov/inventory-management-system/internal/deduction"
)

// StockSource — срез стокового леджера, нужный аллокатору. Claim обязан
// быть атомарным по паре (product, warehouse): конкурирующие заказы не
// должны увидеть один и тот же остаток до списания.
type StockSource interface {
	Claim(ctx context.Context, productID, warehouseID uuid.UUID, want int) (int, error)
}

// Allocate жадно разбирает позиции заказа по складам в порядке ранга:
// с ближайшего склада берётся максимум доступного, остаток позиции
// добирается со следующих. Позиции обрабатываются независимо; если
// какую-то не удалось закрыть целиком, возвращается
// InsufficientStockError. Вместе с ошибкой возвращаются уже применённые
// списания — откат (rollback транзакции либо компенсация) лежит на
// вызывающем.
func Allocate(ctx context.Context, src StockSource, o *Order, ranked []uuid.UUID) ([]deduction.Record, error) {
	records := make([]deduction.Record, 0, len(o.Items))

	for _, item := range o.Items {
		remaining := item.Quantity

		for _, warehouseID := range ranked {
			if remaining == 0 {
				break
			}

			took, err := src.Claim(ctx, item.ProductID, warehouseID, remaining)
			if err != nil {
				return records, fmt.Errorf("allocate: claim failed for product %s: %w", item.ProductID, err)
			}
			if took == 0 {
				continue
			}

			id, err := uuid.NewV4()
			if err != nil {
				return records, fmt.Errorf("allocate: failed to generate deduction id: %w", err)
			}
			records = append(records, deduction.Record{
				ID:          id,
				OrderID:     o.ID,
				ProductID:   item.ProductID,
				WarehouseID: warehouseID,
				Quantity:    took,
				Timestamp:   time.Now().UTC(),
			})
			remaining -= took
		}

		if remaining > 0 {
			return records, &InsufficientStockError{ProductID: item.ProductID, Remaining: remaining}
		}
	}

	return records, nil
}
