package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/google/uuid"
)

// resolver turns the id lists carried by entities into the related entities.
// Ids that no longer resolve are dropped; the storage layer removes them on delete.
type resolver struct {
	products store.Products
	stores   store.Stores
}

func (r resolver) storeRefs(ctx context.Context, ids []uuid.UUID) ([]StoreRef, error) {
	refs := make([]StoreRef, 0, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	stores, err := r.stores.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stores: %w", err)
	}
	byID := make(map[uuid.UUID]*db.Store, len(stores))
	for i := range stores {
		byID[stores[i].ID] = &stores[i]
	}
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			refs = append(refs, toStoreRef(s))
		}
	}
	return refs, nil
}

func (r resolver) productRefs(ctx context.Context, ids []uuid.UUID) ([]ProductRef, error) {
	refs := make([]ProductRef, 0, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	products, err := r.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	byID := make(map[uuid.UUID]*db.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			refs = append(refs, toProductRef(p))
		}
	}
	return refs, nil
}

func (r resolver) productDto(ctx context.Context, product *db.Product) (*ProductDto, error) {
	stores, err := r.storeRefs(ctx, product.StoreIDs)
	if err != nil {
		return nil, err
	}
	return toProductDto(product, stores), nil
}

func (r resolver) storeDto(ctx context.Context, s *db.Store) (*StoreDto, error) {
	products, err := r.productRefs(ctx, s.ProductIDs)
	if err != nil {
		return nil, err
	}
	return toStoreDto(s, products), nil
}

// productDtos resolves the stores of all products with one lookup.
func (r resolver) productDtos(ctx context.Context, products []db.Product) ([]ProductDto, error) {
	var ids []uuid.UUID
	for i := range products {
		ids = append(ids, products[i].StoreIDs...)
	}
	all, err := r.storeRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]StoreRef, len(all))
	for _, ref := range all {
		byID[ref.ID] = ref
	}
	dtos := make([]ProductDto, len(products))
	for i := range products {
		refs := make([]StoreRef, 0, len(products[i].StoreIDs))
		for _, id := range products[i].StoreIDs {
			if ref, ok := byID[id.String()]; ok {
				refs = append(refs, ref)
			}
		}
		dtos[i] = *toProductDto(&products[i], refs)
	}
	return dtos, nil
}

// storeDtos resolves the products of all stores with one lookup.
func (r resolver) storeDtos(ctx context.Context, stores []db.Store) ([]StoreDto, error) {
	var ids []uuid.UUID
	for i := range stores {
		ids = append(ids, stores[i].ProductIDs...)
	}
	all, err := r.productRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]ProductRef, len(all))
	for _, ref := range all {
		byID[ref.ID] = ref
	}
	dtos := make([]StoreDto, len(stores))
	for i := range stores {
		refs := make([]ProductRef, 0, len(stores[i].ProductIDs))
		for _, id := range stores[i].ProductIDs {
			if ref, ok := byID[id.String()]; ok {
				refs = append(refs, ref)
			}
		}
		dtos[i] = *toStoreDto(&stores[i], refs)
	}
	return dtos, nil
}
