// Package deduction — append-only журнал списаний со складов. Каждое
// решение аллокатора фиксируется отдельной записью; записи никогда не
// изменяются и не удаляются, коррекции делаются только встречными
// движениями остатков.
package deduction

import (
	"time"

	"github.com/gofrs/uuid"
)

// Record — одно списание: сколько единиц товара снято с конкретного
// склада в счёт конкретного заказа. Ссылки — по идентификаторам, без
// владения: удаление заказа журнал не трогает.
type Record struct {
	ID          uuid.UUID `json:"id" db:"deduction_id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	Quantity    int       `json:"quantity_deducted" db:"quantity_deducted"`
	Timestamp   time.Time `json:"deduction_timestamp" db:"deduction_timestamp"`
	ProductName string    `json:"product_name,omitempty" db:"-"`
}
