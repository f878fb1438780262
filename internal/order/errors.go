package order

import (
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

var (
	// Ошибки валидации: до каких-либо побочных эффектов.
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("order item quantity must be greater than zero")
	ErrNilProduct      = errors.New("order item product id cannot be nil")
	ErrUnknownProduct  = errors.New("order item references unknown product")

	// ErrRankerUnavailable — оракул дистанций не ответил или не дал
	// данных. Запас не тронут, запрос можно повторить.
	ErrRankerUnavailable = errors.New("proximity ranker unavailable")

	// ErrConcurrencyConflict — транзакция аллокации не прошла за
	// отведённое число повторов из-за конфликтов блокировок.
	ErrConcurrencyConflict = errors.New("allocation aborted by concurrent orders, retry later")
)

// InsufficientStockError: суммарного остатка по всем складам не хватило
// на одну из позиций. Все списания заказа откачены.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock to fulfill order for product %s (short %d)", e.ProductID, e.Remaining)
}
