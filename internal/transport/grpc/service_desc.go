package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the association service.
const ServiceName = "catalog.v1.AssociationService"

const (
	addAssociationMethod      = "/" + ServiceName + "/AddAssociation"
	findAssociationMethod     = "/" + ServiceName + "/FindAssociation"
	listAssociationsMethod    = "/" + ServiceName + "/ListAssociations"
	replaceAssociationsMethod = "/" + ServiceName + "/ReplaceAssociations"
	removeAssociationMethod   = "/" + ServiceName + "/RemoveAssociation"
)

// AssociationServiceServer is the server API of the association service.
// Messages are well-known Struct values keyed like the REST JSON bodies.
type AssociationServiceServer interface {
	AddAssociation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FindAssociation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAssociations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReplaceAssociations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveAssociation(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterAssociationServiceServer registers srv with the gRPC server.
func RegisterAssociationServiceServer(s grpc.ServiceRegistrar, srv AssociationServiceServer) {
	s.RegisterService(&AssociationServiceDesc, srv)
}

// AssociationServiceDesc describes the association service for grpc.Server.
var AssociationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssociationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddAssociation", Handler: structHandler(addAssociationMethod, AssociationServiceServer.AddAssociation)},
		{MethodName: "FindAssociation", Handler: structHandler(findAssociationMethod, AssociationServiceServer.FindAssociation)},
		{MethodName: "ListAssociations", Handler: structHandler(listAssociationsMethod, AssociationServiceServer.ListAssociations)},
		{MethodName: "ReplaceAssociations", Handler: structHandler(replaceAssociationsMethod, AssociationServiceServer.ReplaceAssociations)},
		{MethodName: "RemoveAssociation", Handler: structHandler(removeAssociationMethod, AssociationServiceServer.RemoveAssociation)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/association.proto",
}

// structHandler adapts a unary method taking a Struct request to a grpc.MethodDesc handler.
func structHandler[R any](fullMethod string, call func(AssociationServiceServer, context.Context, *structpb.Struct) (R, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AssociationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AssociationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
