package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fernando061/software-architecture-styles/internal/product/config"
	pkgconfig "github.com/fernando061/software-architecture-styles/pkg/config"
	"github.com/fernando061/software-architecture-styles/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_SetupStore(t *testing.T) {
	testCases := []struct {
		name     string
		store    pkgconfig.StoreConfig
		expected int
	}{
		{name: "memory seeded", store: pkgconfig.StoreConfig{Driver: pkgconfig.StoreDriverMemory, Seed: true}, expected: 3},
		{name: "memory empty", store: pkgconfig.StoreConfig{Driver: pkgconfig.StoreDriverMemory}, expected: 0},
		{name: "sqlite seeded", store: func() pkgconfig.StoreConfig {
			c := pkgconfig.StoreConfig{Driver: pkgconfig.StoreDriverSqlite, Seed: true}
			c.Sqlite.Path = filepath.Join(t.TempDir(), "products.db")
			return c
		}(), expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			cfg := &config.Config{Store: tc.store}
			// when
			repo, cleanup, err := SetupStore(context.Background(), cfg, discardLogger())
			// then
			require.NoError(t, err)
			t.Cleanup(cleanup)
			products, err := repo.FindAll(context.Background())
			require.NoError(t, err)
			assert.Len(t, products, tc.expected)
		})
	}
}

func Test_SetupPublisher_Disabled(t *testing.T) {
	publisher, cleanup, err := SetupPublisher(context.Background(), pkgconfig.NATSConfig{Enabled: false}, discardLogger())

	require.NoError(t, err)
	cleanup()
	assert.IsType(t, messaging.NopPublisher{}, publisher)
}

func Test_SetupHttpHandler(t *testing.T) {
	// given
	cfg := &config.Config{Store: pkgconfig.StoreConfig{Driver: pkgconfig.StoreDriverMemory, Seed: true}}
	repo, cleanup, err := SetupStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	handler := SetupHttpHandler(SetupDependencies(repo, messaging.NopPublisher{}, discardLogger()))

	// when
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-Id"))
	assert.True(t, strings.Contains(rr.Body.String(), `"name":"Laptop"`))
}
