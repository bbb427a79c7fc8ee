package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the SQLSTATE raised when a referenced row does not exist.
const foreignKeyViolation = "23503"

// PgStore implements Products and Stores using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new PgStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

// Products returns the product side of the store.
func (p *PgStore) Products() Products {
	return &pgProducts{p}
}

// Stores returns the store side of the store.
func (p *PgStore) Stores() Stores {
	return &pgStores{p}
}

// Ping checks the database connection.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type pgProducts struct {
	*PgStore
}

// FindByID retrieves a product and its store ids in one snapshot.
func (p *pgProducts) FindByID(ctx context.Context, id uuid.UUID) (*db.Product, error) {
	var product db.Product
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		product, err = qtx.FindProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return catalogerrors.ErrProductNotFound
			}
			return fmt.Errorf("failed to find product by ID: %w", err)
		}
		links, err := qtx.FindLinksByProductIDs(ctx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("failed to find product stores: %w", err)
		}
		product.StoreIDs = storeIDsOf(links)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &product, nil
}

// FindAll retrieves all products and resolves their store ids with a single extra query.
func (p *pgProducts) FindAll(ctx context.Context) ([]db.Product, error) {
	var products []db.Product
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		products, err = qtx.FindAllProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to find all products: %w", err)
		}
		ids := make([]uuid.UUID, len(products))
		for i := range products {
			ids[i] = products[i].ID
		}
		links, err := qtx.FindLinksByProductIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to find product stores: %w", err)
		}
		byProduct := make(map[uuid.UUID][]uuid.UUID, len(products))
		for _, l := range links {
			byProduct[l.ProductID] = append(byProduct[l.ProductID], l.StoreID)
		}
		for i := range products {
			products[i].StoreIDs = nonNil(byProduct[products[i].ID])
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return products, nil
}

// FindByIDs retrieves the products whose ids are listed. Store ids are not loaded.
func (p *pgProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Product, error) {
	if len(ids) == 0 {
		return []db.Product{}, nil
	}
	products, err := p.q.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by IDs: %w", err)
	}
	for i := range products {
		products[i].StoreIDs = []uuid.UUID{}
	}
	return products, nil
}

// Create adds a new product to the system.
func (p *pgProducts) Create(ctx context.Context, params db.CreateProductParams) (*db.Product, error) {
	product, err := p.q.CreateProduct(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.StoreIDs = []uuid.UUID{}
	return &product, nil
}

// Update modifies an existing product's fields.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *pgProducts) Update(ctx context.Context, params db.UpdateProductParams) (*db.Product, error) {
	var product db.Product
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		product, err = qtx.UpdateProduct(ctx, params)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return catalogerrors.ErrProductNotFound
			}
			return fmt.Errorf("failed to update product: %w", err)
		}
		links, err := qtx.FindLinksByProductIDs(ctx, []uuid.UUID{params.ID})
		if err != nil {
			return fmt.Errorf("failed to find product stores: %w", err)
		}
		product.StoreIDs = storeIDsOf(links)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &product, nil
}

// SaveStores replaces the association list of a product inside one transaction.
// The product row is locked so concurrent saves of the same product are applied one after another.
func (p *pgProducts) SaveStores(ctx context.Context, id uuid.UUID, storeIDs []uuid.UUID) (*db.Product, error) {
	var product db.Product
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		product, err = qtx.LockProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return catalogerrors.ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if err := qtx.DeleteLinksByProductID(ctx, id); err != nil {
			return fmt.Errorf("failed to clear product stores: %w", err)
		}
		if len(storeIDs) > 0 {
			if err := qtx.InsertLinks(ctx, id, storeIDs); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
					return catalogerrors.ErrStoreNotFound
				}
				return fmt.Errorf("failed to save product stores: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	product.StoreIDs = append([]uuid.UUID{}, storeIDs...)
	return &product, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *pgProducts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	count, err := p.q.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if count == 0 {
		return catalogerrors.ErrProductNotFound
	}
	return nil
}

type pgStores struct {
	*PgStore
}

// FindByID retrieves a store and the ids of its products.
func (p *pgStores) FindByID(ctx context.Context, id uuid.UUID) (*db.Store, error) {
	var store db.Store
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		store, err = qtx.FindStoreByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return catalogerrors.ErrStoreNotFound
			}
			return fmt.Errorf("failed to find store by ID: %w", err)
		}
		links, err := qtx.FindLinksByStoreIDs(ctx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("failed to find store products: %w", err)
		}
		store.ProductIDs = productIDsOf(links)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &store, nil
}

// FindByIDs retrieves the stores whose ids are listed. Product ids are not loaded.
func (p *pgStores) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Store, error) {
	if len(ids) == 0 {
		return []db.Store{}, nil
	}
	stores, err := p.q.FindStoresByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find stores by IDs: %w", err)
	}
	for i := range stores {
		stores[i].ProductIDs = []uuid.UUID{}
	}
	return stores, nil
}

// FindAll retrieves all stores with their product ids.
func (p *pgStores) FindAll(ctx context.Context) ([]db.Store, error) {
	var stores []db.Store
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		stores, err = qtx.FindAllStores(ctx)
		if err != nil {
			return fmt.Errorf("failed to find all stores: %w", err)
		}
		ids := make([]uuid.UUID, len(stores))
		for i := range stores {
			ids[i] = stores[i].ID
		}
		links, err := qtx.FindLinksByStoreIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to find store products: %w", err)
		}
		byStore := make(map[uuid.UUID][]uuid.UUID, len(stores))
		for _, l := range links {
			byStore[l.StoreID] = append(byStore[l.StoreID], l.ProductID)
		}
		for i := range stores {
			stores[i].ProductIDs = nonNil(byStore[stores[i].ID])
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return stores, nil
}

// Create adds a new store to the system.
func (p *pgStores) Create(ctx context.Context, params db.CreateStoreParams) (*db.Store, error) {
	store, err := p.q.CreateStore(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	store.ProductIDs = []uuid.UUID{}
	return &store, nil
}

// Update modifies an existing store's fields.
// Returns ErrStoreNotFound if no store exists with the given ID.
func (p *pgStores) Update(ctx context.Context, params db.UpdateStoreParams) (*db.Store, error) {
	var store db.Store
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		store, err = qtx.UpdateStore(ctx, params)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return catalogerrors.ErrStoreNotFound
			}
			return fmt.Errorf("failed to update store: %w", err)
		}
		links, err := qtx.FindLinksByStoreIDs(ctx, []uuid.UUID{params.ID})
		if err != nil {
			return fmt.Errorf("failed to find store products: %w", err)
		}
		store.ProductIDs = productIDsOf(links)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &store, nil
}

// DeleteByID removes a store. Association rows go with it through ON DELETE CASCADE.
// Returns ErrStoreNotFound if no store exists with the given ID.
func (p *pgStores) DeleteByID(ctx context.Context, id uuid.UUID) error {
	count, err := p.q.DeleteStore(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete store by ID: %w", err)
	}
	if count == 0 {
		return catalogerrors.ErrStoreNotFound
	}
	return nil
}

func storeIDsOf(links []db.Link) []uuid.UUID {
	ids := make([]uuid.UUID, len(links))
	for i, l := range links {
		ids[i] = l.StoreID
	}
	return ids
}

func productIDsOf(links []db.Link) []uuid.UUID {
	ids := make([]uuid.UUID, len(links))
	for i, l := range links {
		ids[i] = l.ProductID
	}
	return ids
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
