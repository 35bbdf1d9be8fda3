package demo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/fernando061/software-architecture-styles/internal/product/store"
	"github.com/fernando061/software-architecture-styles/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run(t *testing.T) {
	// given
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := store.NewInMemoryStore(
		store.WithClock(func() time.Time { return now }),
		store.WithSeed(store.DemoCatalog(now)...),
	)
	svc := service.NewService(repo, messaging.NopPublisher{})
	var out bytes.Buffer

	// when
	err := Run(context.Background(), &out, svc)

	// then
	require.NoError(t, err)
	expected := `=== Layered architecture - product catalog ===

1. LIST ALL PRODUCTS:
---------------------
   ID: 1, Name: Laptop, Price: $999.99, Created: 2025-03-05
   ID: 2, Name: Mouse, Price: $25.50, Created: 2025-03-07
   ID: 3, Name: Keyboard, Price: $75.00, Created: 2025-03-08

2. GET PRODUCT BY ID:
---------------------
   Found: ID: 1, Name: Laptop, Price: $999.99, Created: 2025-03-05

3. CREATE PRODUCT:
------------------
   Created: ID: 4, Name: Monitor 4K, Price: $299.99, Created: 2025-03-10

4. UPDATE PRODUCT:
------------------
   Updated: ID: 2, Name: Mouse Gaming Pro, Price: $45.99, Created: 2025-03-07

5. DELETE PRODUCT:
------------------
   Product with ID 3 deleted.

6. ERROR HANDLING:
------------------
   Rejected: Product price must be greater than 0.
   Not found: Product with ID 999 does not exist.
   Rejected: Product with ID 999 not found.

`
	assert.Equal(t, expected, out.String())

	products, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func Test_Run_EmptyCatalogStops(t *testing.T) {
	svc := service.NewService(store.NewInMemoryStore(), messaging.NopPublisher{})

	err := Run(context.Background(), &bytes.Buffer{}, svc)

	require.ErrorIs(t, err, perrors.ErrEmptyCatalog)
}

func Test_report(t *testing.T) {
	var out bytes.Buffer
	infra := errors.New("connection refused")

	assert.NoError(t, report(&out, nil))
	assert.NoError(t, report(&out, perrors.ErrProductNotFound))
	assert.ErrorIs(t, report(&out, infra), infra)
	assert.Equal(t, "   Rejected: product not found\n", out.String())
}
