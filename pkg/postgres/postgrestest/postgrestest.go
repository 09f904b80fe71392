// Package postgrestest starts a throwaway Postgres for integration tests.
// Tests are skipped unless STOREFRONT_INTEGRATION=1 and Docker is reachable.
package postgrestest

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/dwikikusuma/storefront/pkg/postgres"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const EnvFlag = "STOREFRONT_INTEGRATION"

// Start returns a migrated database that is torn down with the test.
func Start(t testing.TB) *sql.DB {
	t.Helper()
	if os.Getenv(EnvFlag) != "1" {
		t.Skipf("set %s=1 to run Postgres integration tests", EnvFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "storefront",
				"POSTGRES_PASSWORD": "storefront",
				"POSTGRES_DB":       "storefront",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	mapped, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("container port %q: %v", port.Port(), err)
	}

	db, err := postgres.Open(postgres.Config{
		Host: host,
		Port: mapped,
		User: "storefront",
		Pass: "storefront",
		DB:   "storefront",
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
