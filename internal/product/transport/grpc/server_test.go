package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"testing"
	"time"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/fernando061/software-architecture-styles/internal/product/store"
	"github.com/fernando061/software-architecture-styles/pkg/config"
	"github.com/fernando061/software-architecture-styles/pkg/messaging"
	"github.com/fernando061/software-architecture-styles/pkg/server"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setupClient serves svc over bufconn and returns a client wired with the production interceptors.
func setupClient(t *testing.T, svc service.ProductService) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := server.NewGRPCServer(false, func(s *grpc.Server) {
		RegisterProductServiceServer(s, NewServer(svc, discardLogger()))
	})
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := Dial(
		config.GrpcClientConfig{Addr: "passthrough://bufnet", Timeout: 5 * time.Second},
		config.ResilienceConfig{
			Retry:          config.RetryConfig{MaxAttempts: 2, InitialBackoff: 10 * time.Millisecond},
			CircuitBreaker: config.CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 60, OpenTimeout: time.Second},
		},
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
		_ = lis.Close()
	})
	return NewClient(conn)
}

func seededService() *service.Service {
	repo := store.NewInMemoryStore(
		store.WithClock(func() time.Time { return testNow }),
		store.WithSeed(store.DemoCatalog(testNow)...),
	)
	return service.NewService(repo, messaging.NopPublisher{})
}

func Test_Client_RoundTrip(t *testing.T) {
	// given
	client := setupClient(t, seededService())
	ctx := context.Background()

	// FindAll
	products, err := client.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "ID: 1, Name: Laptop, Price: $999.99, Created: 2025-03-05", products[0].String())

	// FindByID
	found, err := client.FindByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Mouse", found.Name)
	assert.True(t, price("25.50").Equal(found.Price))
	assert.True(t, testNow.Add(-3*24*time.Hour).Equal(found.CreatedAt))

	// Create
	created, err := client.Create(ctx, service.ProductCreateDto{Name: " Monitor 4K ", Price: price("299.99")})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "Monitor 4K", created.Name)

	// Update
	updated, err := client.Update(ctx, 2, service.ProductUpdateDto{Name: "Mouse Gaming Pro", Price: price("45.99")})
	require.NoError(t, err)
	assert.Equal(t, "Mouse Gaming Pro", updated.Name)
	assert.True(t, price("45.99").Equal(updated.Price))

	// Delete
	deleted, err := client.DeleteByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, deleted)

	absent, err := client.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func Test_Client_ErrorKinds(t *testing.T) {
	testCases := []struct {
		name     string
		svc      service.ProductService
		call     func(c *Client) error
		expected error
		message  string
	}{
		{
			name:     "invalid price",
			svc:      seededService(),
			call:     func(c *Client) error { _, err := c.Create(context.Background(), service.ProductCreateDto{Name: "Producto Inválido", Price: price("-10")}); return err },
			expected: perrors.ErrInvalidArgument,
			message:  "Product price must be greater than 0.",
		},
		{
			name:     "invalid id",
			svc:      seededService(),
			call:     func(c *Client) error { _, err := c.FindByID(context.Background(), 0); return err },
			expected: perrors.ErrInvalidArgument,
			message:  "Product ID must be greater than 0.",
		},
		{
			name:     "update not found",
			svc:      seededService(),
			call:     func(c *Client) error { _, err := c.Update(context.Background(), 999, service.ProductUpdateDto{Name: "Producto", Price: price("100")}); return err },
			expected: perrors.ErrProductNotFound,
			message:  "Product with ID 999 not found.",
		},
		{
			name:     "delete not found",
			svc:      seededService(),
			call:     func(c *Client) error { _, err := c.DeleteByID(context.Background(), 999); return err },
			expected: perrors.ErrProductNotFound,
			message:  "Product with ID 999 not found.",
		},
		{
			name:     "empty catalog",
			svc:      service.NewService(store.NewInMemoryStore(), messaging.NopPublisher{}),
			call:     func(c *Client) error { _, err := c.FindAll(context.Background()); return err },
			expected: perrors.ErrEmptyCatalog,
			message:  "No products available in the system.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			client := setupClient(t, tc.svc)
			// when
			err := tc.call(client)
			// then
			require.ErrorIs(t, err, tc.expected)
			assert.Equal(t, tc.message, perrors.Message(err))
		})
	}
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	args := m.Called(ctx)
	var products []service.ProductDto
	if args.Get(0) != nil {
		products = args.Get(0).([]service.ProductDto)
	}
	return products, args.Error(1)
}

func (m *MockProductService) FindByID(ctx context.Context, id int64) (*service.ProductDto, error) {
	args := m.Called(ctx, id)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, dto service.ProductCreateDto) (*service.ProductDto, error) {
	args := m.Called(ctx, dto)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, dto service.ProductUpdateDto) (*service.ProductDto, error) {
	args := m.Called(ctx, id, dto)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) DeleteByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestServer_GetProduct(t *testing.T) {
	ctx := context.Background()
	product := &service.ProductDto{ID: 7, Name: "Test Product", Price: price("10.5"), CreatedAt: testNow}

	testCases := []struct {
		name         string
		mockProduct  *service.ProductDto
		mockError    error
		expectedCode codes.Code
	}{
		{name: "success", mockProduct: product, expectedCode: codes.OK},
		{name: "absent", expectedCode: codes.NotFound},
		{name: "invalid id", mockError: perrors.ErrInvalidArgument, expectedCode: codes.InvalidArgument},
		{name: "internal error", mockError: errors.New("internal error"), expectedCode: codes.Internal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockProductService)
			srv := NewServer(mockSvc, discardLogger())
			mockSvc.On("FindByID", mock.Anything, int64(7)).Return(tc.mockProduct, tc.mockError)

			// when
			res, err := srv.GetProduct(ctx, wrapperspb.Int64(7))

			// then
			if tc.expectedCode == codes.OK {
				require.NoError(t, err)
				assert.Equal(t, "7", res.GetFields()["id"].GetStringValue())
				assert.Equal(t, "Test Product", res.GetFields()["name"].GetStringValue())
				assert.Equal(t, "10.5", res.GetFields()["price"].GetStringValue())
				assert.Equal(t, "2025-03-10T12:00:00Z", res.GetFields()["created_at"].GetStringValue())
			} else {
				require.Error(t, err)
				assert.Equal(t, tc.expectedCode, status.Code(err))
				assert.Nil(t, res)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestServer_ListProducts_EmptyCatalog(t *testing.T) {
	// given
	mockSvc := new(MockProductService)
	srv := NewServer(mockSvc, discardLogger())
	mockSvc.On("FindAll", mock.Anything).Return(nil, perrors.ErrEmptyCatalog)

	// when
	_, err := srv.ListProducts(context.Background(), &emptypb.Empty{})

	// then
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestServer_MalformedRequests(t *testing.T) {
	srv := NewServer(new(MockProductService), discardLogger())
	ctx := context.Background()

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "create with unparsable price", call: func() error {
			_, err := srv.CreateProduct(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
				"name": structpb.NewStringValue("X"), "price": structpb.NewStringValue("ten"),
			}})
			return err
		}},
		{name: "update without id", call: func() error {
			_, err := srv.UpdateProduct(ctx, &structpb.Struct{Fields: productInput("X", price("1"))})
			return err
		}},
		{name: "update with fractional id", call: func() error {
			fields := productInput("X", price("1"))
			fields["id"] = structpb.NewNumberValue(1.5)
			_, err := srv.UpdateProduct(ctx, &structpb.Struct{Fields: fields})
			return err
		}},
		{name: "update with id beyond int64", call: func() error {
			fields := productInput("X", price("1"))
			fields["id"] = structpb.NewNumberValue(1e19)
			_, err := srv.UpdateProduct(ctx, &structpb.Struct{Fields: fields})
			return err
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, codes.InvalidArgument, status.Code(tc.call()))
		})
	}
}

func Test_int64Field(t *testing.T) {
	testCases := []struct {
		name     string
		value    *structpb.Value
		expected int64
		wantErr  bool
	}{
		{name: "string", value: structpb.NewStringValue("42"), expected: 42},
		{name: "string above 2^53", value: structpb.NewStringValue("9007199254740993"), expected: 9007199254740993},
		{name: "max int64 string", value: structpb.NewStringValue("9223372036854775807"), expected: math.MaxInt64},
		{name: "string beyond int64", value: structpb.NewStringValue("9223372036854775808"), wantErr: true},
		{name: "non numeric string", value: structpb.NewStringValue("seven"), wantErr: true},
		{name: "integral number", value: structpb.NewNumberValue(7), expected: 7},
		{name: "number at 2^53", value: structpb.NewNumberValue(1 << 53), expected: 1 << 53},
		{name: "number above 2^53", value: structpb.NewNumberValue(1<<53 + 2), wantErr: true},
		{name: "number beyond int64", value: structpb.NewNumberValue(1e19), wantErr: true},
		{name: "negative number beyond int64", value: structpb.NewNumberValue(-1e19), wantErr: true},
		{name: "fractional number", value: structpb.NewNumberValue(1.5), wantErr: true},
		{name: "NaN", value: structpb.NewNumberValue(math.NaN()), wantErr: true},
		{name: "infinity", value: structpb.NewNumberValue(math.Inf(1)), wantErr: true},
		{name: "bool", value: structpb.NewBoolValue(true), wantErr: true},
		{name: "missing", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &structpb.Struct{Fields: map[string]*structpb.Value{}}
			if tc.value != nil {
				s.Fields["id"] = tc.value
			}

			got, err := int64Field(s, "id")

			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func Test_Client_Update_LargeID(t *testing.T) {
	// given
	const id = int64(9007199254740993)
	mockSvc := new(MockProductService)
	updated := &service.ProductDto{ID: id, Name: "Mouse Gaming Pro", Price: price("45.99"), CreatedAt: testNow}
	mockSvc.On("Update", mock.Anything, id, mock.Anything).Return(updated, nil)
	client := setupClient(t, mockSvc)

	// when
	got, err := client.Update(context.Background(), id, service.ProductUpdateDto{Name: "Mouse Gaming Pro", Price: price("45.99")})

	// then
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	mockSvc.AssertExpectations(t)
}

func Test_priceField(t *testing.T) {
	testCases := []struct {
		name     string
		value    *structpb.Value
		expected string
		wantErr  bool
	}{
		{name: "string", value: structpb.NewStringValue("299.99"), expected: "299.99"},
		{name: "number", value: structpb.NewNumberValue(45.99), expected: "45.99"},
		{name: "missing", expected: "0"},
		{name: "bool", value: structpb.NewBoolValue(true), wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &structpb.Struct{Fields: map[string]*structpb.Value{}}
			if tc.value != nil {
				s.Fields["price"] = tc.value
			}

			got, err := priceField(s)

			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}
