package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"order_item_id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Order владеет своими позициями: удаление заказа каскадно удаляет
// позиции. После успешной аллокации заказ не изменяется.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"order_id"`
	Email     string      `json:"email" db:"email"`
	MobileNo  string      `json:"mobile_no" db:"mobile_no"`
	Address   string      `json:"address" db:"address"`
	Zipcode   string      `json:"zipcode" db:"zipcode"`
	Items     []OrderItem `json:"items" db:"-"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}
