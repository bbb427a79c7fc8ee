package grpc

import (
	"context"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote association service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Add(ctx context.Context, storeID, productID uuid.UUID) (*service.ProductDto, error) {
	out := new(service.ProductDto)
	if err := c.call(ctx, addAssociationMethod, pair(productID, storeID), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Find(ctx context.Context, storeID, productID uuid.UUID) (*service.StoreRef, error) {
	out := new(service.StoreRef)
	if err := c.call(ctx, findAssociationMethod, pair(productID, storeID), out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) List(ctx context.Context, productID uuid.UUID) ([]service.StoreRef, error) {
	var out struct {
		Stores []service.StoreRef `json:"stores"`
	}
	req := map[string]any{FieldProductID: productID.String()}
	if err := c.call(ctx, listAssociationsMethod, req, &out); err != nil {
		return nil, err
	}
	return out.Stores, nil
}

func (c *Client) Replace(ctx context.Context, productID uuid.UUID, storeIDs []uuid.UUID) (*service.ProductDto, error) {
	ids := make([]any, len(storeIDs))
	for i, id := range storeIDs {
		ids[i] = id.String()
	}
	req := map[string]any{FieldProductID: productID.String(), FieldStoreIDs: ids}
	out := new(service.ProductDto)
	if err := c.call(ctx, replaceAssociationsMethod, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Remove(ctx context.Context, storeID, productID uuid.UUID) error {
	in, err := structpb.NewStruct(pair(productID, storeID))
	if err != nil {
		return err
	}
	return c.cc.Invoke(ctx, removeAssociationMethod, in, new(emptypb.Empty))
}

func (c *Client) call(ctx context.Context, method string, req map[string]any, out any) error {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, reply); err != nil {
		return err
	}
	return fromStruct(reply, out)
}

func pair(productID, storeID uuid.UUID) map[string]any {
	return map[string]any{FieldProductID: productID.String(), FieldStoreID: storeID.String()}
}

var _ service.AssociationService = (*Client)(nil)
