package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"toko-checkout/internal/config"
	"toko-checkout/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		AppEnv:          env,
		AppPort:         ":0",
		DatabaseDriver:  repositories.DriverSQLite,
		DatabaseDSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()),
		JWTSecret:       "test_jwt_secret",
		CheckoutTimeout: 5 * time.Second,
		AdminUsername:   "admin",
		AdminEmail:      "admin@example.com",
		AdminPassword:   "adminpass",
	}
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app, cleanup, err := bootstrap(context.Background(), testConfig("test"), zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln)
	}()
	defer app.Shutdown()

	baseURL := "http://" + ln.Addr().String()
	client := &http.Client{Timeout: 2 * time.Second}

	// --- Test Health Endpoint ---
	t.Run("HealthCheck", func(t *testing.T) {
		var resp *http.Response
		require.Eventually(t, func() bool {
			resp, err = client.Get(baseURL + "/health")
			return err == nil
		}, 2*time.Second, 20*time.Millisecond)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(bodyBytes), "\"status\":\"healthy\"", "Health check response body does not contain expected status")
	})

	// --- Test Unauthenticated Access ---
	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/api/v1/products")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Expected Unauthorized for /products without token")
	})
}

func TestBootstrapSeedsAdminAndCatalog(t *testing.T) {
	cfg := testConfig("development")
	app, cleanup, err := bootstrap(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	require.NoError(t, err)
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	products, err := repositories.NewGORMProductRepository(db).GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	user, err := repositories.NewGORMUserRepository(db).GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	assert.NotNil(t, app)
}

func TestBootstrapRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig("test")
	cfg.DatabaseDriver = "oracle"
	_, _, err := bootstrap(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
