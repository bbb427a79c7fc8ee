package service

import (
	"github.com/abgdnv/catalog/internal/store/db"
)

// ProductInputDto carries the writable fields of a product on create and update.
type ProductInputDto struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Price    int64  `json:"price"    validate:"required,gt=0"`
	Category string `json:"category" validate:"required"`
}

// StoreInputDto carries the writable fields of a store on create and update.
type StoreInputDto struct {
	Name    string `json:"name"    validate:"required,max=100"`
	City    string `json:"city"    validate:"required"`
	Address string `json:"address" validate:"required,max=200"`
}

// ProductDto is a product with its associated stores, in association order.
// A store associated twice appears twice.
type ProductDto struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Price    int64      `json:"price"`
	Category string     `json:"category"`
	Stores   []StoreRef `json:"stores"`
}

// StoreDto is a store with the products associated to it.
type StoreDto struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	City     string       `json:"city"`
	Address  string       `json:"address"`
	Products []ProductRef `json:"products"`
}

// StoreRef is a store without its products.
type StoreRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// ProductRef is a product without its stores.
type ProductRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

func toStoreRef(store *db.Store) StoreRef {
	return StoreRef{
		ID:      store.ID.String(),
		Name:    store.Name,
		City:    store.City,
		Address: store.Address,
	}
}

func toProductRef(product *db.Product) ProductRef {
	return ProductRef{
		ID:       product.ID.String(),
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
	}
}

// toProductDto converts a product and its resolved stores to a ProductDto.
func toProductDto(product *db.Product, stores []StoreRef) *ProductDto {
	return &ProductDto{
		ID:       product.ID.String(),
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
		Stores:   stores,
	}
}

// toStoreDto converts a store and its resolved products to a StoreDto.
func toStoreDto(store *db.Store, products []ProductRef) *StoreDto {
	return &StoreDto{
		ID:       store.ID.String(),
		Name:     store.Name,
		City:     store.City,
		Address:  store.Address,
		Products: products,
	}
}
