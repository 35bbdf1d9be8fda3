package grpc

import (
	"context"
	"fmt"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/fernando061/software-architecture-styles/pkg/client/grpc/interceptors"
	"github.com/fernando061/software-architecture-styles/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client implements service.ProductService on top of a remote catalog.v1.ProductService.
// Status codes are translated back to the service error kinds.
type Client struct {
	conn grpc.ClientConnInterface
}

var _ service.ProductService = (*Client)(nil)

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial creates a client connection with timeout, retry and circuit breaker interceptors.
func Dial(cfg config.GrpcClientConfig, resilience config.ResilienceConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
			interceptors.NewRetryInterceptor(resilience.Retry),
			interceptors.NewCircuitBreaker("product-service-cb", resilience.CircuitBreaker),
		),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)
	conn, err := grpc.NewClient(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client connection: %w", err)
	}
	return conn, nil
}

func (c *Client) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, listProductsMethod, &emptypb.Empty{}, out); err != nil {
		return nil, fromStatus(err)
	}
	return structToProducts(out)
}

// FindByID returns nil without error when the server reports NotFound.
func (c *Client) FindByID(ctx context.Context, id int64) (*service.ProductDto, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getProductMethod, wrapperspb.Int64(id), out); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fromStatus(err)
	}
	return decodeProduct(out)
}

func (c *Client) Create(ctx context.Context, product service.ProductCreateDto) (*service.ProductDto, error) {
	in := &structpb.Struct{Fields: productInput(product.Name, product.Price)}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, createProductMethod, in, out); err != nil {
		return nil, fromStatus(err)
	}
	return decodeProduct(out)
}

func (c *Client) Update(ctx context.Context, id int64, product service.ProductUpdateDto) (*service.ProductDto, error) {
	fields := productInput(product.Name, product.Price)
	fields[fieldID] = idValue(id)
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, updateProductMethod, &structpb.Struct{Fields: fields}, out); err != nil {
		return nil, fromStatus(err)
	}
	return decodeProduct(out)
}

func (c *Client) DeleteByID(ctx context.Context, id int64) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, deleteProductMethod, wrapperspb.Int64(id), out); err != nil {
		return false, fromStatus(err)
	}
	return out.GetValue(), nil
}

func decodeProduct(s *structpb.Struct) (*service.ProductDto, error) {
	p, err := structToProduct(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

// fromStatus maps gRPC status codes back to the service error kinds.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", perrors.ErrInvalidArgument, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", perrors.ErrProductNotFound, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", perrors.ErrEmptyCatalog, st.Message())
	default:
		return err
	}
}
