// Package grpc exposes the product service over gRPC and provides a client for it.
// Messages are protobuf well-known types, so no generated code is needed.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "catalog.v1.ProductService"

const (
	listProductsMethod  = "/" + ServiceName + "/ListProducts"
	getProductMethod    = "/" + ServiceName + "/GetProduct"
	createProductMethod = "/" + ServiceName + "/CreateProduct"
	updateProductMethod = "/" + ServiceName + "/UpdateProduct"
	deleteProductMethod = "/" + ServiceName + "/DeleteProduct"
)

// ProductServiceServer is the server API of catalog.v1.ProductService.
type ProductServiceServer interface {
	ListProducts(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetProduct(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
}

// ProductServiceDesc describes catalog.v1.ProductService for grpc.Server.RegisterService.
var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListProducts",
			Handler:    unary(listProductsMethod, func() *emptypb.Empty { return new(emptypb.Empty) }, ProductServiceServer.ListProducts),
		},
		{
			MethodName: "GetProduct",
			Handler:    unary(getProductMethod, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }, ProductServiceServer.GetProduct),
		},
		{
			MethodName: "CreateProduct",
			Handler:    unary(createProductMethod, func() *structpb.Struct { return new(structpb.Struct) }, ProductServiceServer.CreateProduct),
		},
		{
			MethodName: "UpdateProduct",
			Handler:    unary(updateProductMethod, func() *structpb.Struct { return new(structpb.Struct) }, ProductServiceServer.UpdateProduct),
		},
		{
			MethodName: "DeleteProduct",
			Handler:    unary(deleteProductMethod, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }, ProductServiceServer.DeleteProduct),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterProductServiceServer registers srv with s.
func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler, running the server interceptor if any.
func unary[Req, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(ProductServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
