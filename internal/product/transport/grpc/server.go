package grpc

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Server struct {
	service service.ProductService
	logger  *slog.Logger
}

func NewServer(service service.ProductService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.logger.DebugContext(ctx, "received grpc request ListProducts")
	products, err := s.service.FindAll(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "ListProducts", err)
	}
	return productsToStruct(products), nil
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id := req.GetValue()
	s.logger.DebugContext(ctx, "received grpc request GetProduct", "product_id", id)
	product, err := s.service.FindByID(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, "GetProduct", err)
	}
	if product == nil {
		return nil, status.Errorf(codes.NotFound, "Product with ID %d not found.", id)
	}
	return productToStruct(*product), nil
}

func (s *Server) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	price, err := priceField(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	dto := service.ProductCreateDto{Name: req.GetFields()[fieldName].GetStringValue(), Price: price}
	s.logger.DebugContext(ctx, "received grpc request CreateProduct", "name", dto.Name)

	created, err := s.service.Create(ctx, dto)
	if err != nil {
		return nil, s.toStatus(ctx, "CreateProduct", err)
	}
	return productToStruct(*created), nil
}

func (s *Server) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := int64Field(req, fieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	price, err := priceField(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	dto := service.ProductUpdateDto{Name: req.GetFields()[fieldName].GetStringValue(), Price: price}
	s.logger.DebugContext(ctx, "received grpc request UpdateProduct", "product_id", id)

	updated, err := s.service.Update(ctx, id, dto)
	if err != nil {
		return nil, s.toStatus(ctx, "UpdateProduct", err)
	}
	return productToStruct(*updated), nil
}

func (s *Server) DeleteProduct(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	id := req.GetValue()
	s.logger.DebugContext(ctx, "received grpc request DeleteProduct", "product_id", id)
	deleted, err := s.service.DeleteByID(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, "DeleteProduct", err)
	}
	return wrapperspb.Bool(deleted), nil
}

// toStatus maps the service error kinds to gRPC status codes.
func (s *Server) toStatus(ctx context.Context, method string, err error) error {
	switch {
	case errors.Is(err, perrors.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, perrors.Message(err))
	case errors.Is(err, perrors.ErrProductNotFound):
		return status.Error(codes.NotFound, perrors.Message(err))
	case errors.Is(err, perrors.ErrEmptyCatalog):
		return status.Error(codes.FailedPrecondition, perrors.Message(err))
	default:
		s.logger.ErrorContext(ctx, "service call failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}
