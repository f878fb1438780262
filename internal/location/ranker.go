// Package location ранжирует склады по удалённости от адреса доставки.
// Дистанции считает внешний оракул (Google Distance Matrix); ядро
// потребляет только готовый порядок складов.
package location

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
)

// ErrNoDistanceData возвращается, когда оракул не дал пригодных данных о
// расстояниях. Тихая деградация запрещена: без ранжирования заказ не
// обрабатывается.
var ErrNoDistanceData = errors.New("no usable distance data from distance oracle")

// Candidate — склад-кандидат для ранжирования.
type Candidate struct {
	ID      uuid.UUID
	Zipcode string
}

// Ranker возвращает идентификаторы складов, ближайший — первым. Равные
// дистанции сохраняют входной порядок кандидатов.
type Ranker interface {
	Rank(ctx context.Context, originZip string, candidates []Candidate) ([]uuid.UUID, error)
}
