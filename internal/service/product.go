// Package service provides the catalog business logic: product and store
// management and the association between them.
package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/google/uuid"
)

// ProductService defines the methods for managing products.
type ProductService interface {
	// FindAll returns all products with their stores, oldest first.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product with its stores.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// Create validates and adds a new product.
	// Returns a BadRequest error if the category is not accepted.
	Create(ctx context.Context, product ProductInputDto) (*ProductDto, error)

	// Update overwrites the fields of an existing product, keeping its id and stores.
	// Returns ErrProductNotFound before any validation if the product does not exist.
	Update(ctx context.Context, id uuid.UUID, product ProductInputDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// ProductManager implements ProductService.
type ProductManager struct {
	products store.Products
	resolver resolver
}

// NewProductManager creates a new ProductManager over the given stores.
func NewProductManager(products store.Products, stores store.Stores) *ProductManager {
	return &ProductManager{
		products: products,
		resolver: resolver{products: products, stores: stores},
	}
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *ProductManager) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return s.resolver.productDtos(ctx, products)
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *ProductManager) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return s.resolver.productDto(ctx, product)
}

// Create validates the product and stores it.
func (s *ProductManager) Create(ctx context.Context, product ProductInputDto) (*ProductDto, error) {
	if err := validation.Product(product.Category); err != nil {
		return nil, err
	}
	created, err := s.products.Create(ctx, db.CreateProductParams{
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductDto(created, []StoreRef{}), nil
}

// Update checks the product exists, validates the new fields and overwrites them.
func (s *ProductManager) Update(ctx context.Context, id uuid.UUID, product ProductInputDto) (*ProductDto, error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	if err := validation.Product(product.Category); err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, db.UpdateProductParams{
		ID:       id,
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	return s.resolver.productDto(ctx, updated)
}

// DeleteByID deletes a product by its ID.
func (s *ProductManager) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.products.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	return nil
}
