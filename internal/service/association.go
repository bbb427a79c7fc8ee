package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/events"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/logger"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AssociationService manages the stores a product is associated with.
type AssociationService interface {
	// Add appends the store to the product's association list. Adding the
	// same pair twice produces two entries.
	// Checks the store first, then the product.
	Add(ctx context.Context, storeID, productID uuid.UUID) (*ProductDto, error)

	// Find returns the store if it is associated to the product.
	// Checks the product, then the store, then membership (ErrStoreNotAssociated).
	Find(ctx context.Context, storeID, productID uuid.UUID) (*StoreRef, error)

	// List returns the product's stores in association order.
	List(ctx context.Context, productID uuid.UUID) ([]StoreRef, error)

	// Replace overwrites the product's association list with storeIDs.
	// Each store is checked in turn; the first missing one aborts with
	// ErrStoreNotFound and the previous list stays untouched.
	Replace(ctx context.Context, productID uuid.UUID, storeIDs []uuid.UUID) (*ProductDto, error)

	// Remove drops every entry of the store from the product's association list.
	// Same checks and order as Find.
	Remove(ctx context.Context, storeID, productID uuid.UUID) error
}

// AssociationManager implements AssociationService. Mutations of the same
// product are serialized within the process.
type AssociationManager struct {
	products  store.Products
	stores    store.Stores
	resolver  resolver
	publisher messaging.Publisher
	locks     *keyedMutex
	logger    *slog.Logger
	mutations metric.Int64Counter
	now       func() time.Time
}

func NewAssociationManager(products store.Products, stores store.Stores, publisher messaging.Publisher, log *slog.Logger) *AssociationManager {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	mutations, err := otel.Meter("catalog").Int64Counter("association_mutations",
		metric.WithDescription("Successful association mutations by operation"))
	if err != nil {
		panic(fmt.Sprintf("failed to create association_mutations counter: %v", err))
	}
	return &AssociationManager{
		products:  products,
		stores:    stores,
		resolver:  resolver{products: products, stores: stores},
		publisher: publisher,
		locks:     newKeyedMutex(),
		logger:    log,
		mutations: mutations,
		now:       time.Now,
	}
}

func (s *AssociationManager) Add(ctx context.Context, storeID, productID uuid.UUID) (*ProductDto, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()
	ctx = logger.WithAttrs(ctx, slog.String("product_id", productID.String()))

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, fmt.Errorf("failed to add store %s: %w", storeID, err)
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add store to product %s: %w", productID, err)
	}

	saved, err := s.products.SaveStores(ctx, productID, append(product.StoreIDs, storeID))
	if err != nil {
		return nil, fmt.Errorf("failed to save stores of product %s: %w", productID, err)
	}
	s.record(ctx, "add")
	s.publish(ctx, events.AssociationAdded(productID, storeID, s.now()))
	return s.resolver.productDto(ctx, saved)
}

func (s *AssociationManager) Find(ctx context.Context, storeID, productID uuid.UUID) (*StoreRef, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", productID, err)
	}
	found, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store by ID %s: %w", storeID, err)
	}
	if !slices.Contains(product.StoreIDs, storeID) {
		return nil, catalogerrors.ErrStoreNotAssociated
	}
	ref := toStoreRef(found)
	return &ref, nil
}

func (s *AssociationManager) List(ctx context.Context, productID uuid.UUID) ([]StoreRef, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", productID, err)
	}
	return s.resolver.storeRefs(ctx, product.StoreIDs)
}

func (s *AssociationManager) Replace(ctx context.Context, productID uuid.UUID, storeIDs []uuid.UUID) (*ProductDto, error) {
	unlock := s.locks.Lock(productID)
	defer unlock()
	ctx = logger.WithAttrs(ctx, slog.String("product_id", productID.String()))

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", productID, err)
	}
	for _, id := range storeIDs {
		if _, err := s.stores.FindByID(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to fetch store by ID %s: %w", id, err)
		}
	}

	saved, err := s.products.SaveStores(ctx, productID, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to save stores of product %s: %w", productID, err)
	}
	s.record(ctx, "replace")
	s.publish(ctx, events.AssociationsReplaced(productID, storeIDs, s.now()))
	return s.resolver.productDto(ctx, saved)
}

func (s *AssociationManager) Remove(ctx context.Context, storeID, productID uuid.UUID) error {
	unlock := s.locks.Lock(productID)
	defer unlock()
	ctx = logger.WithAttrs(ctx, slog.String("product_id", productID.String()))

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to fetch product by ID %s: %w", productID, err)
	}
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return fmt.Errorf("failed to fetch store by ID %s: %w", storeID, err)
	}
	if !slices.Contains(product.StoreIDs, storeID) {
		return catalogerrors.ErrStoreNotAssociated
	}

	remaining := slices.DeleteFunc(product.StoreIDs, func(id uuid.UUID) bool { return id == storeID })
	if _, err := s.products.SaveStores(ctx, productID, remaining); err != nil {
		return fmt.Errorf("failed to save stores of product %s: %w", productID, err)
	}
	s.record(ctx, "remove")
	s.publish(ctx, events.AssociationRemoved(productID, storeID, s.now()))
	return nil
}

func (s *AssociationManager) record(ctx context.Context, operation string) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// publish sends the event. The mutation is already persisted, so a failure is only logged.
func (s *AssociationManager) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish association event", "subject", event.Subject(), "error", err)
	}
}
