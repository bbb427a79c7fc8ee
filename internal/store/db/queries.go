package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries runs the catalog SQL statements against a DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of Queries bound to the transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const productColumns = `id, name, price, category, created_at`

const storeColumns = `id, name, city, address, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.CreatedAt)
	return p, err
}

func scanStore(row pgx.Row) (Store, error) {
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.City, &s.Address, &s.CreatedAt)
	return s, err
}

const findProductByID = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) FindProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, findProductByID, id))
}

const lockProductByID = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

// LockProductByID reads the product row and locks it until the transaction ends.
func (q *Queries) LockProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, lockProductByID, id))
}

const findAllProducts = `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`

func (q *Queries) FindAllProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findAllProducts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
}

const findProductsByIDs = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

func (q *Queries) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error) {
	rows, err := q.db.Query(ctx, findProductsByIDs, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
}

const createProduct = `INSERT INTO products (name, price, category)
VALUES ($1, $2, $3)
RETURNING ` + productColumns

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct, arg.Name, arg.Price, arg.Category))
}

const updateProduct = `UPDATE products
SET name = $2, price = $3, category = $4
WHERE id = $1
RETURNING ` + productColumns

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct, arg.ID, arg.Name, arg.Price, arg.Category))
}

const deleteProduct = `DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const findStoreByID = `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

func (q *Queries) FindStoreByID(ctx context.Context, id uuid.UUID) (Store, error) {
	return scanStore(q.db.QueryRow(ctx, findStoreByID, id))
}

const findAllStores = `SELECT ` + storeColumns + ` FROM stores ORDER BY created_at, id`

func (q *Queries) FindAllStores(ctx context.Context) ([]Store, error) {
	rows, err := q.db.Query(ctx, findAllStores)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Store, error) {
		return scanStore(row)
	})
}

const findStoresByIDs = `SELECT ` + storeColumns + ` FROM stores WHERE id = ANY($1::uuid[])`

func (q *Queries) FindStoresByIDs(ctx context.Context, ids []uuid.UUID) ([]Store, error) {
	rows, err := q.db.Query(ctx, findStoresByIDs, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Store, error) {
		return scanStore(row)
	})
}

const createStore = `INSERT INTO stores (name, city, address)
VALUES ($1, $2, $3)
RETURNING ` + storeColumns

func (q *Queries) CreateStore(ctx context.Context, arg CreateStoreParams) (Store, error) {
	return scanStore(q.db.QueryRow(ctx, createStore, arg.Name, arg.City, arg.Address))
}

const updateStore = `UPDATE stores
SET name = $2, city = $3, address = $4
WHERE id = $1
RETURNING ` + storeColumns

func (q *Queries) UpdateStore(ctx context.Context, arg UpdateStoreParams) (Store, error) {
	return scanStore(q.db.QueryRow(ctx, updateStore, arg.ID, arg.Name, arg.City, arg.Address))
}

const deleteStore = `DELETE FROM stores WHERE id = $1`

func (q *Queries) DeleteStore(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteStore, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const findLinksByProductIDs = `SELECT product_id, store_id
FROM product_stores
WHERE product_id = ANY($1::uuid[])
ORDER BY product_id, position`

// FindLinksByProductIDs returns the association rows of the products, each
// product's rows in list order.
func (q *Queries) FindLinksByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]Link, error) {
	return q.findLinks(ctx, findLinksByProductIDs, productIDs)
}

const findLinksByStoreIDs = `SELECT ps.product_id, ps.store_id
FROM product_stores ps
JOIN products p ON p.id = ps.product_id
WHERE ps.store_id = ANY($1::uuid[])
ORDER BY p.created_at, p.id, ps.position`

// FindLinksByStoreIDs returns the association rows pointing at the stores,
// ordered by product creation.
func (q *Queries) FindLinksByStoreIDs(ctx context.Context, storeIDs []uuid.UUID) ([]Link, error) {
	return q.findLinks(ctx, findLinksByStoreIDs, storeIDs)
}

func (q *Queries) findLinks(ctx context.Context, sql string, ids []uuid.UUID) ([]Link, error) {
	rows, err := q.db.Query(ctx, sql, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Link, error) {
		var l Link
		err := row.Scan(&l.ProductID, &l.StoreID)
		return l, err
	})
}

const deleteLinksByProductID = `DELETE FROM product_stores WHERE product_id = $1`

func (q *Queries) DeleteLinksByProductID(ctx context.Context, productID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteLinksByProductID, productID)
	return err
}

const insertLinks = `INSERT INTO product_stores (product_id, store_id, position)
SELECT $1, s.store_id, s.ord::int
FROM unnest($2::uuid[]) WITH ORDINALITY AS s(store_id, ord)`

// InsertLinks appends the stores to the product in the given order, starting at position 1.
func (q *Queries) InsertLinks(ctx context.Context, productID uuid.UUID, storeIDs []uuid.UUID) error {
	_, err := q.db.Exec(ctx, insertLinks, productID, storeIDs)
	return err
}
