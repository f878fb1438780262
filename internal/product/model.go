package product

import (
	"time"

	"github.com/gofrs/uuid"
)

// Product представляет товар в каталоге.
type Product struct {
	ID              uuid.UUID `json:"id" db:"product_id"`
	Name            string    `json:"name" db:"name"`
	Price           float64   `json:"price" db:"price"`
	OverallQuantity int       `json:"overall_quantity" db:"overall_quantity"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
