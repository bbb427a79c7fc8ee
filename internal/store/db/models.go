// Package db contains the row models and SQL queries of the catalog database.
package db

import (
	"time"

	"github.com/google/uuid"
)

// Product is a product row together with the ordered ids of its associated stores.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     int64 // Price in cents
	Category  string
	StoreIDs  []uuid.UUID
	CreatedAt time.Time
}

// Store is a store row together with the ids of the products associated to it.
type Store struct {
	ID         uuid.UUID
	Name       string
	City       string
	Address    string
	ProductIDs []uuid.UUID
	CreatedAt  time.Time
}

type CreateProductParams struct {
	Name     string
	Price    int64
	Category string
}

type UpdateProductParams struct {
	ID       uuid.UUID
	Name     string
	Price    int64
	Category string
}

type CreateStoreParams struct {
	Name    string
	City    string
	Address string
}

type UpdateStoreParams struct {
	ID      uuid.UUID
	Name    string
	City    string
	Address string
}

// Link is one row of the product_stores join relation.
type Link struct {
	ProductID uuid.UUID
	StoreID   uuid.UUID
}
