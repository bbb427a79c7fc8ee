// Package grpc exposes the association service over gRPC.
package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Request and response field names.
const (
	FieldProductID = "product_id"
	FieldStoreID   = "store_id"
	FieldStoreIDs  = "store_ids"
	FieldStores    = "stores"
)

var _ AssociationServiceServer = (*Server)(nil)

type Server struct {
	service service.AssociationService
	logger  *slog.Logger
}

func NewServer(service service.AssociationService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) AddAssociation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, storeID, err := parsePair(req)
	if err != nil {
		return nil, err
	}
	product, err := s.service.Add(ctx, storeID, productID)
	if err != nil {
		return nil, s.toStatus(ctx, "AddAssociation", err)
	}
	return toStruct(product)
}

func (s *Server) FindAssociation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, storeID, err := parsePair(req)
	if err != nil {
		return nil, err
	}
	store, err := s.service.Find(ctx, storeID, productID)
	if err != nil {
		return nil, s.toStatus(ctx, "FindAssociation", err)
	}
	return toStruct(store)
}

func (s *Server) ListAssociations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := parseID(req, FieldProductID)
	if err != nil {
		return nil, err
	}
	stores, err := s.service.List(ctx, productID)
	if err != nil {
		return nil, s.toStatus(ctx, "ListAssociations", err)
	}
	return toStruct(map[string]any{FieldStores: stores})
}

func (s *Server) ReplaceAssociations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := parseID(req, FieldProductID)
	if err != nil {
		return nil, err
	}
	storeIDs := []uuid.UUID{}
	if v, ok := req.GetFields()[FieldStoreIDs]; ok {
		list := v.GetListValue()
		if list == nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s must be a list", FieldStoreIDs)
		}
		for _, item := range list.GetValues() {
			id, err := uuid.Parse(item.GetStringValue())
			if err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "invalid store ID %q", item.GetStringValue())
			}
			storeIDs = append(storeIDs, id)
		}
	}
	product, err := s.service.Replace(ctx, productID, storeIDs)
	if err != nil {
		return nil, s.toStatus(ctx, "ReplaceAssociations", err)
	}
	return toStruct(product)
}

func (s *Server) RemoveAssociation(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	productID, storeID, err := parsePair(req)
	if err != nil {
		return nil, err
	}
	if err := s.service.Remove(ctx, storeID, productID); err != nil {
		return nil, s.toStatus(ctx, "RemoveAssociation", err)
	}
	return &emptypb.Empty{}, nil
}

// toStatus maps an error kind to a gRPC status. Internal errors are logged and hidden.
func (s *Server) toStatus(ctx context.Context, method string, err error) error {
	switch catalogerrors.KindOf(err) {
	case catalogerrors.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	case catalogerrors.KindBadRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	case catalogerrors.KindPreconditionFailed:
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.ErrorContext(ctx, "association service failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}

func parseID(req *structpb.Struct, field string) (uuid.UUID, error) {
	raw := req.GetFields()[field].GetStringValue()
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s %q", field, raw)
	}
	return id, nil
}

func parsePair(req *structpb.Struct) (productID, storeID uuid.UUID, err error) {
	if productID, err = parseID(req, FieldProductID); err != nil {
		return
	}
	storeID, err = parseID(req, FieldStoreID)
	return
}

// toStruct converts a DTO to a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// fromStruct decodes a Struct into a DTO through its JSON form.
func fromStruct(in *structpb.Struct, v any) error {
	raw, err := in.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to decode struct: %w", err)
	}
	return json.Unmarshal(raw, v)
}
