package warehouse

import (
	"time"

	"github.com/gofrs/uuid"
)

// Warehouse — склад с географической привязкой. Capacity носит
// информационный характер и алгоритмом распределения не учитывается.
type Warehouse struct {
	ID        uuid.UUID `json:"id" db:"warehouse_id"`
	Location  string    `json:"location" db:"location"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Zipcode   string    `json:"zipcode" db:"zipcode"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
