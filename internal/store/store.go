// Package store provides the persistence port for products and stores.
package store

import (
	"context"

	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/google/uuid"
)

// Products is the persistence port for products.
// Association lists are persisted as part of the product aggregate: a product
// carries the ordered ids of its stores, never the stores themselves.
type Products interface {
	// FindByID retrieves a single product with its store ids loaded.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*db.Product, error)

	// FindAll returns all products with their store ids loaded, oldest first.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]db.Product, error)

	// FindByIDs resolves ids to products without their store ids. Unknown ids
	// are skipped and the result order is unspecified.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Product, error)

	// Create adds a new product with an empty association list.
	Create(ctx context.Context, params db.CreateProductParams) (*db.Product, error)

	// Update overwrites the product's fields and keeps its association list.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, params db.UpdateProductParams) (*db.Product, error)

	// SaveStores replaces the product's association list with storeIDs, in order.
	// Returns ErrProductNotFound if the product is gone, ErrStoreNotFound if a store is.
	SaveStores(ctx context.Context, id uuid.UUID, storeIDs []uuid.UUID) (*db.Product, error)

	// DeleteByID removes a product and its association rows.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Stores is the persistence port for stores.
type Stores interface {
	// FindByID retrieves a single store with the ids of its products loaded.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*db.Store, error)

	// FindByIDs resolves ids to stores. Unknown ids are skipped and the result
	// order is unspecified; callers index the result by id.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Store, error)

	// FindAll returns all stores with their product ids loaded, oldest first.
	FindAll(ctx context.Context) ([]db.Store, error)

	// Create adds a new store.
	Create(ctx context.Context, params db.CreateStoreParams) (*db.Store, error)

	// Update overwrites the store's fields.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	Update(ctx context.Context, params db.UpdateStoreParams) (*db.Store, error)

	// DeleteByID removes a store and strips it from every product association list.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Pinger reports whether the backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
