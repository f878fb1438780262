package stock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type pairKey struct {
	product   uuid.UUID
	warehouse uuid.UUID
}

// MemoryLedger — реализация Repository в памяти для тестов и локальной
// разработки. Каждая пара (product, warehouse) сериализуется собственным
// мьютексом, который удерживается на весь цикл read-decide-write.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[pairKey]*Entry
	locks   map[pairKey]*sync.Mutex
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		entries: make(map[pairKey]*Entry),
		locks:   make(map[pairKey]*sync.Mutex),
	}
}

// lockKey возвращает мьютекс пары, создавая его при первом обращении.
func (m *MemoryLedger) lockKey(key pairKey) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

func (m *MemoryLedger) get(key pairKey) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key]
}

func (m *MemoryLedger) put(key pairKey, e *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
}

func (m *MemoryLedger) GetStock(_ context.Context, productID, warehouseID uuid.UUID) (*Entry, error) {
	key := pairKey{productID, warehouseID}
	l := m.lockKey(key)
	l.Lock()
	defer l.Unlock()

	e := m.get(key)
	if e == nil {
		return nil, ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *MemoryLedger) SetQuantity(_ context.Context, productID, warehouseID uuid.UUID, quantity int) (*Entry, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	key := pairKey{productID, warehouseID}
	l := m.lockKey(key)
	l.Lock()
	defer l.Unlock()

	e := m.get(key)
	if e == nil {
		return nil, ErrNotFound
	}
	e.Quantity = quantity
	e.UpdatedAt = time.Now().UTC()
	copied := *e
	return &copied, nil
}

func (m *MemoryLedger) AddOrAdjust(_ context.Context, productID, warehouseID uuid.UUID, delta int) (*Entry, error) {
	key := pairKey{productID, warehouseID}
	l := m.lockKey(key)
	l.Lock()
	defer l.Unlock()

	now := time.Now().UTC()
	e := m.get(key)
	if e == nil {
		if delta < 0 {
			return nil, ErrNegativeQuantity
		}
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		e = &Entry{ID: id, ProductID: productID, WarehouseID: warehouseID, Quantity: delta, CreatedAt: now, UpdatedAt: now}
		m.put(key, e)
		copied := *e
		return &copied, nil
	}

	if e.Quantity+delta < 0 {
		return nil, ErrNegativeQuantity
	}
	e.Quantity += delta
	e.UpdatedAt = now
	copied := *e
	return &copied, nil
}

func (m *MemoryLedger) ListByWarehouse(_ context.Context, warehouseID uuid.UUID) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, 0)
	for _, e := range m.entries {
		if e.WarehouseID == warehouseID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID.String() < entries[j].ProductID.String()
	})
	return entries, nil
}

// Claim атомарно списывает до want единиц, возвращая фактически взятое
// количество. Семантика совпадает с ClaimTx поверх Postgres.
func (m *MemoryLedger) Claim(_ context.Context, productID, warehouseID uuid.UUID, want int) (int, error) {
	if want <= 0 {
		return 0, nil
	}

	key := pairKey{productID, warehouseID}
	l := m.lockKey(key)
	l.Lock()
	defer l.Unlock()

	e := m.get(key)
	if e == nil || e.Quantity <= 0 {
		return 0, nil
	}

	take := want
	if e.Quantity < take {
		take = e.Quantity
	}
	e.Quantity -= take
	e.UpdatedAt = time.Now().UTC()
	return take, nil
}
