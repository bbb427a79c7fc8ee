package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/google/uuid"
)

// StoreService defines the methods for managing stores.
type StoreService interface {
	// FindAll returns all stores with their products, oldest first.
	FindAll(ctx context.Context) ([]StoreDto, error)

	// FindByID retrieves a single store with its products.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*StoreDto, error)

	// Create validates and adds a new store.
	// Returns a BadRequest error if the city is not accepted.
	Create(ctx context.Context, s StoreInputDto) (*StoreDto, error)

	// Update overwrites the fields of an existing store.
	// Returns ErrStoreNotFound before any validation if the store does not exist.
	Update(ctx context.Context, id uuid.UUID, s StoreInputDto) (*StoreDto, error)

	// DeleteByID removes a store and its associations.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// StoreManager implements StoreService.
type StoreManager struct {
	stores   store.Stores
	resolver resolver
}

func NewStoreManager(products store.Products, stores store.Stores) *StoreManager {
	return &StoreManager{
		stores:   stores,
		resolver: resolver{products: products, stores: stores},
	}
}

func (s *StoreManager) FindAll(ctx context.Context) ([]StoreDto, error) {
	stores, err := s.stores.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stores: %w", err)
	}
	return s.resolver.storeDtos(ctx, stores)
}

func (s *StoreManager) FindByID(ctx context.Context, id uuid.UUID) (*StoreDto, error) {
	found, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store by ID %s: %w", id, err)
	}
	return s.resolver.storeDto(ctx, found)
}

func (s *StoreManager) Create(ctx context.Context, in StoreInputDto) (*StoreDto, error) {
	if err := validation.Store(in.City); err != nil {
		return nil, err
	}
	created, err := s.stores.Create(ctx, db.CreateStoreParams{
		Name:    in.Name,
		City:    in.City,
		Address: in.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return toStoreDto(created, []ProductRef{}), nil
}

func (s *StoreManager) Update(ctx context.Context, id uuid.UUID, in StoreInputDto) (*StoreDto, error) {
	if _, err := s.stores.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to fetch store by ID %s: %w", id, err)
	}
	if err := validation.Store(in.City); err != nil {
		return nil, err
	}
	updated, err := s.stores.Update(ctx, db.UpdateStoreParams{
		ID:      id,
		Name:    in.Name,
		City:    in.City,
		Address: in.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update store with ID %s: %w", id, err)
	}
	return s.resolver.storeDto(ctx, updated)
}

func (s *StoreManager) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.stores.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete store with ID %s: %w", id, err)
	}
	return nil
}
