package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/google/uuid"
)

// InMemory implements Products and Stores over maps guarded by one RWMutex.
// Values are copied in and out so callers never share slices with the store.
type InMemory struct {
	mu       sync.RWMutex
	products map[uuid.UUID]memProduct
	stores   map[uuid.UUID]memStore
	seq      int64
	now      func() time.Time
}

type memProduct struct {
	product db.Product
	seq     int64
}

type memStore struct {
	store db.Store
	seq   int64
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemory {
	return &InMemory{
		products: make(map[uuid.UUID]memProduct),
		stores:   make(map[uuid.UUID]memStore),
		now:      time.Now,
	}
}

// Products returns the product side of the store.
func (s *InMemory) Products() Products {
	return &memProducts{s}
}

// Stores returns the store side of the store.
func (s *InMemory) Stores() Stores {
	return &memStores{s}
}

// Ping always succeeds.
func (s *InMemory) Ping(_ context.Context) error {
	return nil
}

func (s *InMemory) nextSeq() int64 {
	s.seq++
	return s.seq
}

// productIDsFor scans products in creation order and collects one id per
// association entry pointing at storeID. Callers hold the lock.
func (s *InMemory) productIDsFor(storeID uuid.UUID) []uuid.UUID {
	ids := []uuid.UUID{}
	for _, p := range s.sortedProducts() {
		for _, sid := range p.product.StoreIDs {
			if sid == storeID {
				ids = append(ids, p.product.ID)
			}
		}
	}
	return ids
}

func (s *InMemory) sortedProducts() []memProduct {
	list := make([]memProduct, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b memProduct) int { return cmp.Compare(a.seq, b.seq) })
	return list
}

func (s *InMemory) sortedStores() []memStore {
	list := make([]memStore, 0, len(s.stores))
	for _, st := range s.stores {
		list = append(list, st)
	}
	slices.SortFunc(list, func(a, b memStore) int { return cmp.Compare(a.seq, b.seq) })
	return list
}

func copyProduct(p db.Product) *db.Product {
	p.StoreIDs = append([]uuid.UUID{}, p.StoreIDs...)
	return &p
}

type memProducts struct {
	*InMemory
}

// FindByID retrieves a product by its ID.
func (m *memProducts) FindByID(_ context.Context, id uuid.UUID) (*db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	return copyProduct(p.product), nil
}

// FindAll retrieves all products in creation order.
func (m *memProducts) FindAll(_ context.Context) ([]db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := m.sortedProducts()
	list := make([]db.Product, 0, len(sorted))
	for _, p := range sorted {
		list = append(list, *copyProduct(p.product))
	}
	return list, nil
}

// FindByIDs retrieves the products whose ids are listed, skipping unknown ids.
func (m *memProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(ids))
	list := make([]db.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := m.products[id]; ok {
			product := p.product
			product.StoreIDs = []uuid.UUID{}
			list = append(list, product)
		}
	}
	return list, nil
}

// Create creates a new product and returns it.
func (m *memProducts) Create(_ context.Context, params db.CreateProductParams) (*db.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product := db.Product{
		ID:        uuid.New(),
		Name:      params.Name,
		Price:     params.Price,
		Category:  params.Category,
		StoreIDs:  []uuid.UUID{},
		CreatedAt: m.now(),
	}
	m.products[product.ID] = memProduct{product: product, seq: m.nextSeq()}
	return copyProduct(product), nil
}

// Update overwrites the product's fields.
func (m *memProducts) Update(_ context.Context, params db.UpdateProductParams) (*db.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[params.ID]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	p.product.Name = params.Name
	p.product.Price = params.Price
	p.product.Category = params.Category
	m.products[params.ID] = p
	return copyProduct(p.product), nil
}

// SaveStores replaces the association list of the product.
func (m *memProducts) SaveStores(_ context.Context, id uuid.UUID, storeIDs []uuid.UUID) (*db.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	for _, sid := range storeIDs {
		if _, ok := m.stores[sid]; !ok {
			return nil, catalogerrors.ErrStoreNotFound
		}
	}
	p.product.StoreIDs = append([]uuid.UUID{}, storeIDs...)
	m.products[id] = p
	return copyProduct(p.product), nil
}

// DeleteByID deletes a product by its ID.
func (m *memProducts) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[id]; !exists {
		return catalogerrors.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

type memStores struct {
	*InMemory
}

// FindByID retrieves a store by its ID.
func (m *memStores) FindByID(_ context.Context, id uuid.UUID) (*db.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.stores[id]
	if !ok {
		return nil, catalogerrors.ErrStoreNotFound
	}
	store := st.store
	store.ProductIDs = m.productIDsFor(id)
	return &store, nil
}

// FindByIDs retrieves the stores whose ids are listed, skipping unknown ids.
func (m *memStores) FindByIDs(_ context.Context, ids []uuid.UUID) ([]db.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(ids))
	list := make([]db.Store, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if st, ok := m.stores[id]; ok {
			store := st.store
			store.ProductIDs = []uuid.UUID{}
			list = append(list, store)
		}
	}
	return list, nil
}

// FindAll retrieves all stores in creation order.
func (m *memStores) FindAll(_ context.Context) ([]db.Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := m.sortedStores()
	list := make([]db.Store, 0, len(sorted))
	for _, st := range sorted {
		store := st.store
		store.ProductIDs = m.productIDsFor(store.ID)
		list = append(list, store)
	}
	return list, nil
}

// Create creates a new store and returns it.
func (m *memStores) Create(_ context.Context, params db.CreateStoreParams) (*db.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store := db.Store{
		ID:         uuid.New(),
		Name:       params.Name,
		City:       params.City,
		Address:    params.Address,
		ProductIDs: []uuid.UUID{},
		CreatedAt:  m.now(),
	}
	m.stores[store.ID] = memStore{store: store, seq: m.nextSeq()}
	return &store, nil
}

// Update overwrites the store's fields.
func (m *memStores) Update(_ context.Context, params db.UpdateStoreParams) (*db.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.stores[params.ID]
	if !ok {
		return nil, catalogerrors.ErrStoreNotFound
	}
	st.store.Name = params.Name
	st.store.City = params.City
	st.store.Address = params.Address
	m.stores[params.ID] = st

	store := st.store
	store.ProductIDs = m.productIDsFor(params.ID)
	return &store, nil
}

// DeleteByID deletes a store and removes it from every association list.
func (m *memStores) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.stores[id]; !exists {
		return catalogerrors.ErrStoreNotFound
	}
	delete(m.stores, id)
	for pid, p := range m.products {
		p.product.StoreIDs = slices.DeleteFunc(p.product.StoreIDs, func(sid uuid.UUID) bool { return sid == id })
		m.products[pid] = p
	}
	return nil
}
