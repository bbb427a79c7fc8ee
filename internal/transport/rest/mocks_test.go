package rest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	args := m.Called(ctx)
	var list []service.ProductDto
	if args.Get(0) != nil {
		list = args.Get(0).([]service.ProductDto)
	}
	return list, args.Error(1)
}

func (m *MockProductService) FindByID(ctx context.Context, id uuid.UUID) (*service.ProductDto, error) {
	args := m.Called(ctx, id)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, p service.ProductInputDto) (*service.ProductDto, error) {
	args := m.Called(ctx, p)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id uuid.UUID, p service.ProductInputDto) (*service.ProductDto, error) {
	args := m.Called(ctx, id, p)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAssociationService struct {
	mock.Mock
}

func (m *MockAssociationService) Add(ctx context.Context, storeID, productID uuid.UUID) (*service.ProductDto, error) {
	args := m.Called(ctx, storeID, productID)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockAssociationService) Find(ctx context.Context, storeID, productID uuid.UUID) (*service.StoreRef, error) {
	args := m.Called(ctx, storeID, productID)
	var store *service.StoreRef
	if args.Get(0) != nil {
		store = args.Get(0).(*service.StoreRef)
	}
	return store, args.Error(1)
}

func (m *MockAssociationService) List(ctx context.Context, productID uuid.UUID) ([]service.StoreRef, error) {
	args := m.Called(ctx, productID)
	var list []service.StoreRef
	if args.Get(0) != nil {
		list = args.Get(0).([]service.StoreRef)
	}
	return list, args.Error(1)
}

func (m *MockAssociationService) Replace(ctx context.Context, productID uuid.UUID, storeIDs []uuid.UUID) (*service.ProductDto, error) {
	args := m.Called(ctx, productID, storeIDs)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockAssociationService) Remove(ctx context.Context, storeID, productID uuid.UUID) error {
	return m.Called(ctx, storeID, productID).Error(0)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v any) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}
