package grpc

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names of the product message.
const (
	fieldID        = "id"
	fieldName      = "name"
	fieldPrice     = "price"
	fieldCreatedAt = "created_at"
	fieldProducts  = "products"
)

func productToStruct(p service.ProductDto) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldID:        idValue(p.ID),
		fieldName:      structpb.NewStringValue(p.Name),
		fieldPrice:     structpb.NewStringValue(p.Price.String()),
		fieldCreatedAt: structpb.NewStringValue(p.CreatedAt.Format(time.RFC3339Nano)),
	}}
}

func productsToStruct(products []service.ProductDto) *structpb.Struct {
	values := make([]*structpb.Value, len(products))
	for i, p := range products {
		values[i] = structpb.NewStructValue(productToStruct(p))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldProducts: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

func structToProduct(s *structpb.Struct) (service.ProductDto, error) {
	id, err := int64Field(s, fieldID)
	if err != nil {
		return service.ProductDto{}, err
	}
	price, err := priceField(s)
	if err != nil {
		return service.ProductDto{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, s.GetFields()[fieldCreatedAt].GetStringValue())
	if err != nil {
		return service.ProductDto{}, fmt.Errorf("invalid %s: %w", fieldCreatedAt, err)
	}
	return service.ProductDto{
		ID:        id,
		Name:      s.GetFields()[fieldName].GetStringValue(),
		Price:     price,
		CreatedAt: createdAt,
	}, nil
}

func structToProducts(s *structpb.Struct) ([]service.ProductDto, error) {
	values := s.GetFields()[fieldProducts].GetListValue().GetValues()
	products := make([]service.ProductDto, len(values))
	for i, v := range values {
		p, err := structToProduct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		products[i] = p
	}
	return products, nil
}

// productInput is the mutable part of a product carried by create and update requests.
func productInput(name string, price decimal.Decimal) map[string]*structpb.Value {
	return map[string]*structpb.Value{
		fieldName:  structpb.NewStringValue(name),
		fieldPrice: structpb.NewStringValue(price.String()),
	}
}

// maxExactID is the largest integer a float64 holds exactly.
const maxExactID = 1 << 53

// idValue encodes an id as a decimal string, a struct number would round ids above 2^53.
func idValue(id int64) *structpb.Value {
	return structpb.NewStringValue(strconv.FormatInt(id, 10))
}

// int64Field reads an id sent as a decimal string. Numbers are accepted only while they are
// integral and exactly representable.
func int64Field(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", name, kind.StringValue)
		}
		return n, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || math.Abs(n) > maxExactID {
			return 0, fmt.Errorf("invalid %s", name)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("invalid %s", name)
	}
}

// priceField accepts the price as a decimal string or a number. A missing price is zero.
func priceField(s *structpb.Struct) (decimal.Decimal, error) {
	v, ok := s.GetFields()[fieldPrice]
	if !ok {
		return decimal.Zero, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		price, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s %q", fieldPrice, kind.StringValue)
		}
		return price, nil
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Zero, fmt.Errorf("invalid %s", fieldPrice)
	}
}
