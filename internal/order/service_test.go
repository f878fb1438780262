package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/inventory-management-system/internal/deduction"
	"github.com/vasiliy-maslov/inventory-management-system/internal/location"
	"github.com/vasiliy-maslov/inventory-management-system/internal/order"
	"github.com/vasiliy-maslov/inventory-management-system/internal/stock"
	"github.com/vasiliy-maslov/inventory-management-system/internal/warehouse"
)

type mockRepository struct {
	createFn func(ctx context.Context, o *order.Order, ranked []uuid.UUID) ([]deduction.Record, error)
	listFn   func(ctx context.Context) ([]order.Order, error)
	calls    int
}

func (m *mockRepository) CreateWithAllocation(ctx context.Context, o *order.Order, ranked []uuid.UUID) ([]deduction.Record, error) {
	m.calls++
	return m.createFn(ctx, o, ranked)
}

func (m *mockRepository) List(ctx context.Context) ([]order.Order, error) {
	return m.listFn(ctx)
}

type mockWarehouses struct {
	warehouses []warehouse.Warehouse
	err        error
}

func (m *mockWarehouses) GetAllWarehouses(_ context.Context) ([]warehouse.Warehouse, error) {
	return m.warehouses, m.err
}

type mockRanker struct {
	rankFn func(ctx context.Context, originZip string, candidates []location.Candidate) ([]uuid.UUID, error)
}

func (m *mockRanker) Rank(ctx context.Context, originZip string, candidates []location.Candidate) ([]uuid.UUID, error) {
	return m.rankFn(ctx, originZip, candidates)
}

func validOrder() *order.Order {
	return &order.Order{
		Email:    "buyer@example.com",
		MobileNo: "+15550001122",
		Address:  "1 Main St",
		Zipcode:  "94105",
		Items:    []order.OrderItem{{ProductID: uuid.Must(uuid.NewV4()), Quantity: 2}},
	}
}

func TestCreateOrder_ValidationShortCircuits(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(o *order.Order)
		wantErr error
	}{
		{
			name:    "no items",
			mutate:  func(o *order.Order) { o.Items = nil },
			wantErr: order.ErrNoItems,
		},
		{
			name:    "nil product id",
			mutate:  func(o *order.Order) { o.Items[0].ProductID = uuid.Nil },
			wantErr: order.ErrNilProduct,
		},
		{
			name:    "zero quantity",
			mutate:  func(o *order.Order) { o.Items[0].Quantity = 0 },
			wantErr: order.ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			mutate:  func(o *order.Order) { o.Items[0].Quantity = -3 },
			wantErr: order.ErrInvalidQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepository{}
			ranker := &mockRanker{rankFn: func(_ context.Context, _ string, _ []location.Candidate) ([]uuid.UUID, error) {
				t.Fatal("ranker must not be consulted for an invalid order")
				return nil, nil
			}}
			s := order.NewService(repo, &mockWarehouses{}, ranker)

			o := validOrder()
			tc.mutate(o)

			_, err := s.CreateOrder(context.Background(), o)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, repo.calls, "repository must not be touched")
		})
	}
}

func TestCreateOrder_RankerUnavailable(t *testing.T) {
	repo := &mockRepository{}
	warehouses := &mockWarehouses{warehouses: []warehouse.Warehouse{
		{ID: uuid.Must(uuid.NewV4()), Zipcode: "10001"},
	}}
	ranker := &mockRanker{rankFn: func(_ context.Context, _ string, _ []location.Candidate) ([]uuid.UUID, error) {
		return nil, location.ErrNoDistanceData
	}}
	s := order.NewService(repo, warehouses, ranker)

	_, err := s.CreateOrder(context.Background(), validOrder())
	assert.ErrorIs(t, err, order.ErrRankerUnavailable)
	assert.Zero(t, repo.calls, "no allocation may happen without a ranking")
}

func TestCreateOrder_RankerSeesAllWarehouses(t *testing.T) {
	w1 := uuid.Must(uuid.NewV4())
	w2 := uuid.Must(uuid.NewV4())
	warehouses := &mockWarehouses{warehouses: []warehouse.Warehouse{
		{ID: w1, Zipcode: "10001"},
		{ID: w2, Zipcode: "60601"},
	}}

	var gotOrigin string
	var gotCandidates []location.Candidate
	ranker := &mockRanker{rankFn: func(_ context.Context, originZip string, candidates []location.Candidate) ([]uuid.UUID, error) {
		gotOrigin = originZip
		gotCandidates = candidates
		return []uuid.UUID{w2, w1}, nil
	}}

	var gotRanked []uuid.UUID
	repo := &mockRepository{createFn: func(_ context.Context, o *order.Order, ranked []uuid.UUID) ([]deduction.Record, error) {
		gotRanked = ranked
		o.ID = uuid.Must(uuid.NewV4())
		return nil, nil
	}}
	s := order.NewService(repo, warehouses, ranker)

	_, err := s.CreateOrder(context.Background(), validOrder())
	require.NoError(t, err)
	assert.Equal(t, "94105", gotOrigin)
	require.Len(t, gotCandidates, 2)
	assert.Equal(t, "10001", gotCandidates[0].Zipcode)
	// Порядок оракула доходит до репозитория без изменений.
	assert.Equal(t, []uuid.UUID{w2, w1}, gotRanked)
}

func TestCreateOrder_TypedErrorsPassThrough(t *testing.T) {
	productID := uuid.Must(uuid.NewV4())
	testCases := []struct {
		name    string
		repoErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "insufficient stock",
			repoErr: &order.InsufficientStockError{ProductID: productID, Remaining: 4},
			check: func(t *testing.T, err error) {
				var insufficient *order.InsufficientStockError
				require.ErrorAs(t, err, &insufficient)
				assert.Equal(t, productID, insufficient.ProductID)
			},
		},
		{
			name:    "unknown product",
			repoErr: order.ErrUnknownProduct,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, order.ErrUnknownProduct) },
		},
		{
			name:    "concurrency conflict",
			repoErr: order.ErrConcurrencyConflict,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, order.ErrConcurrencyConflict) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepository{createFn: func(_ context.Context, _ *order.Order, _ []uuid.UUID) ([]deduction.Record, error) {
				return nil, tc.repoErr
			}}
			warehouses := &mockWarehouses{warehouses: []warehouse.Warehouse{{ID: uuid.Must(uuid.NewV4()), Zipcode: "10001"}}}
			ranker := &mockRanker{rankFn: func(_ context.Context, _ string, candidates []location.Candidate) ([]uuid.UUID, error) {
				ids := make([]uuid.UUID, 0, len(candidates))
				for _, c := range candidates {
					ids = append(ids, c.ID)
				}
				return ids, nil
			}}
			s := order.NewService(repo, warehouses, ranker)

			_, err := s.CreateOrder(context.Background(), validOrder())
			tc.check(t, err)
		})
	}
}

func TestGetAllOrders(t *testing.T) {
	want := []order.Order{{ID: uuid.Must(uuid.NewV4()), Email: "a@b.c"}}
	repo := &mockRepository{listFn: func(_ context.Context) ([]order.Order, error) {
		return want, nil
	}}
	s := order.NewService(repo, &mockWarehouses{}, &mockRanker{})

	got, err := s.GetAllOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	repo.listFn = func(_ context.Context) ([]order.Order, error) { return nil, errors.New("boom") }
	_, err = s.GetAllOrders(context.Background())
	assert.Error(t, err)
}

// memoryFulfiller — репозиторий поверх MemoryLedger: выполняет аллокацию и
// компенсирует частичные списания при ошибке, имитируя rollback транзакции.
type memoryFulfiller struct {
	ledger *stock.MemoryLedger
	orders []order.Order
}

func (f *memoryFulfiller) CreateWithAllocation(ctx context.Context, o *order.Order, ranked []uuid.UUID) ([]deduction.Record, error) {
	o.ID = uuid.Must(uuid.NewV4())
	records, err := order.Allocate(ctx, f.ledger, o, ranked)
	if err != nil {
		for _, rec := range records {
			if _, compErr := f.ledger.AddOrAdjust(ctx, rec.ProductID, rec.WarehouseID, rec.Quantity); compErr != nil {
				return nil, compErr
			}
		}
		return nil, err
	}
	f.orders = append(f.orders, *o)
	return records, nil
}

func (f *memoryFulfiller) List(_ context.Context) ([]order.Order, error) {
	return f.orders, nil
}

func TestCreateOrder_InsufficientStockLeavesLedgerUntouched(t *testing.T) {
	productID := uuid.Must(uuid.NewV4())
	w1 := uuid.Must(uuid.NewV4())
	w2 := uuid.Must(uuid.NewV4())
	ledger := newLedger(t, map[uuid.UUID]map[uuid.UUID]int{
		w1: {productID: 4},
		w2: {productID: 3},
	})

	fulfiller := &memoryFulfiller{ledger: ledger}
	warehouses := &mockWarehouses{warehouses: []warehouse.Warehouse{
		{ID: w1, Zipcode: "10001"},
		{ID: w2, Zipcode: "60601"},
	}}
	ranker := &mockRanker{rankFn: func(_ context.Context, _ string, _ []location.Candidate) ([]uuid.UUID, error) {
		return []uuid.UUID{w1, w2}, nil
	}}
	s := order.NewService(fulfiller, warehouses, ranker)

	o := validOrder()
	o.Items[0].ProductID = productID
	o.Items[0].Quantity = 10

	_, err := s.CreateOrder(context.Background(), o)
	var insufficient *order.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// Отказ не оставляет следов: количества восстановлены полностью.
	assert.Equal(t, 4, quantityAt(t, ledger, productID, w1))
	assert.Equal(t, 3, quantityAt(t, ledger, productID, w2))
	orders, _ := fulfiller.List(context.Background())
	assert.Empty(t, orders)
}

func TestCreateOrder_MultiItemFailureRestoresEarlierItems(t *testing.T) {
	p1 := uuid.Must(uuid.NewV4())
	p2 := uuid.Must(uuid.NewV4())
	w1 := uuid.Must(uuid.NewV4())
	ledger := newLedger(t, map[uuid.UUID]map[uuid.UUID]int{
		w1: {p1: 5, p2: 2},
	})

	fulfiller := &memoryFulfiller{ledger: ledger}
	warehouses := &mockWarehouses{warehouses: []warehouse.Warehouse{{ID: w1, Zipcode: "10001"}}}
	ranker := &mockRanker{rankFn: func(_ context.Context, _ string, _ []location.Candidate) ([]uuid.UUID, error) {
		return []uuid.UUID{w1}, nil
	}}
	s := order.NewService(fulfiller, warehouses, ranker)

	o := validOrder()
	o.Items = []order.OrderItem{
		{ProductID: p1, Quantity: 5},
		{ProductID: p2, Quantity: 100},
	}

	_, err := s.CreateOrder(context.Background(), o)
	var insufficient *order.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, p2, insufficient.ProductID)

	// Успешно списанная первая позиция возвращена на склад.
	assert.Equal(t, 5, quantityAt(t, ledger, p1, w1))
	assert.Equal(t, 2, quantityAt(t, ledger, p2, w1))
}

func TestCreateOrder_SuccessfulFulfillment(t *testing.T) {
	productID := uuid.Must(uuid.NewV4())
	w1 := uuid.Must(uuid.NewV4())
	w2 := uuid.Must(uuid.NewV4())
	ledger := newLedger(t, map[uuid.UUID]map[uuid.UUID]int{
		w1: {productID: 4},
		w2: {productID: 10},
	})

	fulfiller := &memoryFulfiller{ledger: ledger}
	warehouses := &mockWarehouses{warehouses: []warehouse.Warehouse{
		{ID: w1, Zipcode: "10001"},
		{ID: w2, Zipcode: "60601"},
	}}
	ranker := &mockRanker{rankFn: func(_ context.Context, _ string, _ []location.Candidate) ([]uuid.UUID, error) {
		return []uuid.UUID{w1, w2}, nil
	}}
	s := order.NewService(fulfiller, warehouses, ranker)

	o := validOrder()
	o.Items[0].ProductID = productID
	o.Items[0].Quantity = 6

	created, err := s.CreateOrder(context.Background(), o)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 0, quantityAt(t, ledger, productID, w1))
	assert.Equal(t, 8, quantityAt(t, ledger, productID, w2))

	orders, err := s.GetAllOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)
}
