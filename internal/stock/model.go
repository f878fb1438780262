package stock

import (
	"time"

	"github.com/gofrs/uuid"
)

// Entry — количество одного товара на одном складе. Пара
// (product_id, warehouse_id) уникальна; отсутствие записи означает
// нулевую доступность, но такой записи нечего списывать.
type Entry struct {
	ID          uuid.UUID `json:"id" db:"stock_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id" db:"warehouse_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	ProductName string    `json:"product_name,omitempty" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
