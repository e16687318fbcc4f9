package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stackpay/paygate/internal/config"
	"github.com/stackpay/paygate/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabase is a throwaway postgres container with the schema applied.
type TestDatabase struct {
	Container testcontainers.Container
	DB        *postgres.DB
	Config    config.DatabaseConfig
}

// SetupTestDatabase starts a postgres container and runs the migrations.
// Set GATEWAY_TEST_INTEGRATION to enable; the suite skips without it so
// unit runs do not require a container runtime.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if os.Getenv("GATEWAY_TEST_INTEGRATION") == "" {
		t.Skip("set GATEWAY_TEST_INTEGRATION to run database tests")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Name:            "testdb",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	require.NoError(t, postgres.Migrate(ctx, dbConfig))

	db, err := postgres.NewDB(ctx, dbConfig)
	require.NoError(t, err)

	return &TestDatabase{
		Container: container,
		DB:        db,
		Config:    dbConfig,
	}
}

func (td *TestDatabase) Cleanup(t *testing.T) {
	ctx := context.Background()
	td.DB.Close()
	require.NoError(t, td.Container.Terminate(ctx))
}

func (td *TestDatabase) CleanTables(t *testing.T) {
	ctx := context.Background()

	_, err := td.DB.Pool.Exec(ctx, "TRUNCATE TABLE payments, orders, subscriptions, webhook_events RESTART IDENTITY CASCADE;")
	require.NoError(t, err)
}
