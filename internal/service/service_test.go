package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/events"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher keeps every published event and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Subject()
	}
	return out
}

type fixture struct {
	mem          *store.InMemory
	products     *ProductManager
	stores       *StoreManager
	associations *AssociationManager
	publisher    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewInMemoryStore()
	publisher := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		mem:          mem,
		products:     NewProductManager(mem.Products(), mem.Stores()),
		stores:       NewStoreManager(mem.Products(), mem.Stores()),
		associations: NewAssociationManager(mem.Products(), mem.Stores(), publisher, logger),
		publisher:    publisher,
	}
}

func (f *fixture) product(t *testing.T) uuid.UUID {
	t.Helper()
	p, err := f.products.Create(context.Background(), ProductInputDto{Name: "Milk", Price: 350, Category: "Perishable"})
	require.NoError(t, err)
	return uuid.MustParse(p.ID)
}

func (f *fixture) storeIDs(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range n {
		s, err := f.stores.Create(context.Background(), StoreInputDto{Name: "Store", City: "BOG", Address: "Calle 26"})
		require.NoError(t, err)
		ids[i] = uuid.MustParse(s.ID)
	}
	return ids
}

func refIDs(refs []StoreRef) []string {
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

func strIDs(ids ...uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func Test_ProductManager_Create(t *testing.T) {
	testCases := []struct {
		name        string
		input       ProductInputDto
		expectError error
	}{
		{
			name:  "Success - perishable",
			input: ProductInputDto{Name: "Milk", Price: 350, Category: "Perishable"},
		},
		{
			name:  "Success - non perishable",
			input: ProductInputDto{Name: "Rice", Price: 120, Category: "NonPerishable"},
		},
		{
			name:        "Error - unknown category",
			input:       ProductInputDto{Name: "Old milk", Price: 350, Category: "Spoiled"},
			expectError: catalogerrors.ErrBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			// when
			created, err := f.products.Create(context.Background(), tc.input)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				all, findErr := f.products.FindAll(context.Background())
				require.NoError(t, findErr)
				assert.Empty(t, all, "a rejected product must not be stored")
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, tc.input.Category, created.Category)
			assert.Empty(t, created.Stores)
		})
	}
}

func Test_ProductManager_Update(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t)

	// when
	updated, err := f.products.Update(ctx, id, ProductInputDto{Name: "Milk", Price: 400, Category: "NonPerishable"})

	// then
	require.NoError(t, err)
	assert.Equal(t, id.String(), updated.ID)
	found, err := f.products.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "NonPerishable", found.Category)
	assert.Equal(t, int64(400), found.Price)

	// unknown id: not found even with an invalid category, nothing changes
	_, err = f.products.Update(ctx, uuid.New(), ProductInputDto{Name: "x", Price: 1, Category: "Spoiled"})
	assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
	all, err := f.products.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "NonPerishable", all[0].Category)

	// invalid category on an existing product
	_, err = f.products.Update(ctx, id, ProductInputDto{Name: "Milk", Price: 400, Category: "Spoiled"})
	assert.ErrorIs(t, err, catalogerrors.ErrBadRequest)
}

func Test_ProductManager_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t)

	require.NoError(t, f.products.DeleteByID(ctx, id))
	_, err := f.products.FindByID(ctx, id)
	assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound)
	assert.ErrorIs(t, f.products.DeleteByID(ctx, id), catalogerrors.ErrNotFound)
}

func Test_StoreManager_CreateAndUpdate(t *testing.T) {
	testCases := []struct {
		name        string
		city        string
		expectError error
	}{
		{name: "Success - three letters", city: "BOG"},
		{name: "Success - three runes", city: "MÜN"},
		{name: "Error - two letters", city: "NY", expectError: catalogerrors.ErrBadRequest},
		{name: "Error - four letters", city: "LOND", expectError: catalogerrors.ErrBadRequest},
		{name: "Error - empty", city: "", expectError: catalogerrors.ErrBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			ctx := context.Background()
			existing := f.storeIDs(t, 1)[0]
			// when
			created, createErr := f.stores.Create(ctx, StoreInputDto{Name: "S", City: tc.city, Address: "A"})
			updated, updateErr := f.stores.Update(ctx, existing, StoreInputDto{Name: "S", City: tc.city, Address: "A"})
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, createErr, tc.expectError)
				assert.ErrorIs(t, updateErr, tc.expectError)
				assert.Nil(t, created)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, createErr)
			require.NoError(t, updateErr)
			assert.Equal(t, tc.city, created.City)
			assert.Equal(t, tc.city, updated.City)
		})
	}
}

func Test_StoreManager_UpdateUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.stores.Update(context.Background(), uuid.New(), StoreInputDto{Name: "S", City: "NY"})
	assert.ErrorIs(t, err, catalogerrors.ErrStoreNotFound)
}

func Test_StoreManager_ShowsProducts(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	storeID := f.storeIDs(t, 1)[0]
	_, err := f.associations.Add(ctx, storeID, productID)
	require.NoError(t, err)

	// when
	found, err := f.stores.FindByID(ctx, storeID)
	require.NoError(t, err)
	all, err := f.stores.FindAll(ctx)
	require.NoError(t, err)

	// then
	require.Len(t, found.Products, 1)
	assert.Equal(t, productID.String(), found.Products[0].ID)
	assert.Equal(t, "Milk", found.Products[0].Name)
	require.Len(t, all, 1)
	assert.Equal(t, found.Products, all[0].Products)

	// deleting the store strips it from the product
	require.NoError(t, f.stores.DeleteByID(ctx, storeID))
	product, err := f.products.FindByID(ctx, productID)
	require.NoError(t, err)
	assert.Empty(t, product.Stores)
}

func Test_AssociationManager_AddThenFind(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	storeID := f.storeIDs(t, 1)[0]

	// when
	product, err := f.associations.Add(ctx, storeID, productID)
	require.NoError(t, err)
	found, err := f.associations.Find(ctx, storeID, productID)

	// then
	require.NoError(t, err)
	assert.Equal(t, strIDs(storeID), refIDs(product.Stores))
	assert.Equal(t, StoreRef{ID: storeID.String(), Name: "Store", City: "BOG", Address: "Calle 26"}, *found)
	assert.Equal(t, []string{events.AssociationAddedSubject}, f.publisher.subjects())
}

func Test_AssociationManager_AddKeepsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	storeID := f.storeIDs(t, 1)[0]

	_, err := f.associations.Add(ctx, storeID, productID)
	require.NoError(t, err)
	product, err := f.associations.Add(ctx, storeID, productID)
	require.NoError(t, err)

	assert.Equal(t, strIDs(storeID, storeID), refIDs(product.Stores))
	list, err := f.associations.List(ctx, productID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func Test_AssociationManager_CheckOrder(t *testing.T) {
	missingProduct := uuid.New()
	missingStore := uuid.New()

	testCases := []struct {
		name        string
		call        func(f *fixture, productID, storeID uuid.UUID) error
		productID   func(existing uuid.UUID) uuid.UUID
		storeID     func(existing uuid.UUID) uuid.UUID
		expectError error
	}{
		{
			name: "Add - store checked before product",
			call: func(f *fixture, p, s uuid.UUID) error {
				_, err := f.associations.Add(context.Background(), s, p)
				return err
			},
			productID:   func(uuid.UUID) uuid.UUID { return missingProduct },
			storeID:     func(uuid.UUID) uuid.UUID { return missingStore },
			expectError: catalogerrors.ErrStoreNotFound,
		},
		{
			name: "Add - missing product",
			call: func(f *fixture, p, s uuid.UUID) error {
				_, err := f.associations.Add(context.Background(), s, p)
				return err
			},
			productID:   func(uuid.UUID) uuid.UUID { return missingProduct },
			storeID:     func(existing uuid.UUID) uuid.UUID { return existing },
			expectError: catalogerrors.ErrProductNotFound,
		},
		{
			name: "Find - product checked before store",
			call: func(f *fixture, p, s uuid.UUID) error {
				_, err := f.associations.Find(context.Background(), s, p)
				return err
			},
			productID:   func(uuid.UUID) uuid.UUID { return missingProduct },
			storeID:     func(uuid.UUID) uuid.UUID { return missingStore },
			expectError: catalogerrors.ErrProductNotFound,
		},
		{
			name: "Find - missing store",
			call: func(f *fixture, p, s uuid.UUID) error {
				_, err := f.associations.Find(context.Background(), s, p)
				return err
			},
			productID:   func(existing uuid.UUID) uuid.UUID { return existing },
			storeID:     func(uuid.UUID) uuid.UUID { return missingStore },
			expectError: catalogerrors.ErrStoreNotFound,
		},
		{
			name: "Find - never associated",
			call: func(f *fixture, p, s uuid.UUID) error {
				_, err := f.associations.Find(context.Background(), s, p)
				return err
			},
			productID:   func(existing uuid.UUID) uuid.UUID { return existing },
			storeID:     func(existing uuid.UUID) uuid.UUID { return existing },
			expectError: catalogerrors.ErrStoreNotAssociated,
		},
		{
			name: "Remove - product checked before store",
			call: func(f *fixture, p, s uuid.UUID) error {
				return f.associations.Remove(context.Background(), s, p)
			},
			productID:   func(uuid.UUID) uuid.UUID { return missingProduct },
			storeID:     func(uuid.UUID) uuid.UUID { return missingStore },
			expectError: catalogerrors.ErrProductNotFound,
		},
		{
			name: "Remove - never associated",
			call: func(f *fixture, p, s uuid.UUID) error {
				return f.associations.Remove(context.Background(), s, p)
			},
			productID:   func(existing uuid.UUID) uuid.UUID { return existing },
			storeID:     func(existing uuid.UUID) uuid.UUID { return existing },
			expectError: catalogerrors.ErrPreconditionFailed,
		},
		{
			name: "List - missing product",
			call: func(f *fixture, p, _ uuid.UUID) error {
				_, err := f.associations.List(context.Background(), p)
				return err
			},
			productID:   func(uuid.UUID) uuid.UUID { return missingProduct },
			storeID:     func(existing uuid.UUID) uuid.UUID { return existing },
			expectError: catalogerrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			productID := f.product(t)
			storeID := f.storeIDs(t, 1)[0]
			// when
			err := tc.call(f, tc.productID(productID), tc.storeID(storeID))
			// then
			assert.ErrorIs(t, err, tc.expectError)
			assert.Empty(t, f.publisher.subjects(), "failed operations publish nothing")
		})
	}
}

func Test_AssociationManager_ReplaceOverwrites(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	ids := f.storeIDs(t, 3)
	_, err := f.associations.Add(ctx, ids[0], productID)
	require.NoError(t, err)

	// when
	product, err := f.associations.Replace(ctx, productID, []uuid.UUID{ids[1], ids[2]})
	require.NoError(t, err)

	// then
	assert.Equal(t, strIDs(ids[1], ids[2]), refIDs(product.Stores))
	list, err := f.associations.List(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, strIDs(ids[1], ids[2]), refIDs(list))
	_, err = f.associations.Find(ctx, ids[0], productID)
	assert.ErrorIs(t, err, catalogerrors.ErrStoreNotAssociated)

	// replacing twice with the same list is a no-op
	again, err := f.associations.Replace(ctx, productID, []uuid.UUID{ids[1], ids[2]})
	require.NoError(t, err)
	assert.Equal(t, product, again)

	// an empty list clears the associations
	cleared, err := f.associations.Replace(ctx, productID, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared.Stores)
}

func Test_AssociationManager_ReplaceWithMissingStoreKeepsList(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	ids := f.storeIDs(t, 2)
	_, err := f.associations.Replace(ctx, productID, ids)
	require.NoError(t, err)

	// when
	_, err = f.associations.Replace(ctx, productID, []uuid.UUID{ids[0], uuid.New()})

	// then
	assert.ErrorIs(t, err, catalogerrors.ErrStoreNotFound)
	list, err := f.associations.List(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, strIDs(ids...), refIDs(list))

	_, err = f.associations.Replace(ctx, uuid.New(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, catalogerrors.ErrProductNotFound, "the product is checked before the stores")
}

func Test_AssociationManager_FiveStoresScenario(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	ids := f.storeIDs(t, 5)
	for _, id := range ids {
		_, err := f.associations.Add(ctx, id, productID)
		require.NoError(t, err)
	}
	list, err := f.associations.List(ctx, productID)
	require.NoError(t, err)
	require.Len(t, list, 5)

	// when
	require.NoError(t, f.associations.Remove(ctx, ids[0], productID))

	// then
	list, err = f.associations.List(ctx, productID)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.NotContains(t, refIDs(list), ids[0].String())
	assert.Equal(t, strIDs(ids[1:]...), refIDs(list))

	store0, err := f.stores.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Empty(t, store0.Products, "the store side sees the removal")
}

func Test_AssociationManager_RemoveDropsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	ids := f.storeIDs(t, 2)
	_, err := f.associations.Replace(ctx, productID, []uuid.UUID{ids[0], ids[1], ids[0]})
	require.NoError(t, err)

	require.NoError(t, f.associations.Remove(ctx, ids[0], productID))

	list, err := f.associations.List(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, strIDs(ids[1]), refIDs(list))
	assert.Equal(t, []string{events.AssociationReplacedSubject, events.AssociationRemovedSubject}, f.publisher.subjects())
}

func Test_AssociationManager_PublishFailureDoesNotFailOperation(t *testing.T) {
	// given
	f := newFixture(t)
	f.publisher.err = errors.New("nats: connection closed")
	ctx := context.Background()
	productID := f.product(t)
	storeID := f.storeIDs(t, 1)[0]

	// when
	product, err := f.associations.Add(ctx, storeID, productID)

	// then
	require.NoError(t, err)
	assert.Len(t, product.Stores, 1)
	assert.Len(t, f.publisher.subjects(), 1)
}

func Test_AssociationManager_ConcurrentAddsAreSerialized(t *testing.T) {
	// given
	f := newFixture(t)
	ctx := context.Background()
	productID := f.product(t)
	ids := f.storeIDs(t, 40)

	// when
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(storeID uuid.UUID) {
			defer wg.Done()
			_, err := f.associations.Add(ctx, storeID, productID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// then
	list, err := f.associations.List(ctx, productID)
	require.NoError(t, err)
	assert.ElementsMatch(t, strIDs(ids...), refIDs(list), "no add may be lost")
	assert.Zero(t, f.associations.locks.size())
}

// failingProducts breaks every call with a storage error.
type failingProducts struct {
	store.Products
	err error
}

func (f failingProducts) FindByID(_ context.Context, _ uuid.UUID) (*db.Product, error) {
	return nil, f.err
}

func Test_AssociationManager_StorageErrorIsInternal(t *testing.T) {
	// given
	storageErr := errors.New("connection refused")
	mem := store.NewInMemoryStore()
	manager := NewAssociationManager(failingProducts{Products: mem.Products(), err: storageErr}, mem.Stores(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// when
	_, err := manager.List(context.Background(), uuid.New())

	// then
	assert.ErrorIs(t, err, storageErr)
	assert.Equal(t, catalogerrors.KindInternal, catalogerrors.KindOf(err))
}
