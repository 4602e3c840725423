//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"locreg/internal/platform/database"
	"locreg/migrations"
)

// registryTables lists every migrated table, children before parents.
var registryTables = []string{
	"outbox",
	"collection_sizes",
	"collection_items",
	"identity_loc_locs",
	"account_locs",
	"loc_links",
	"loc_files",
	"loc_metadata",
	"locs",
}

// PostgresContainer is a migrated registry database.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func startPostgres() (*PostgresContainer, error) {
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:18-alpine",
		postgres.WithDatabase("locreg_test"),
		postgres.WithUsername("locreg"),
		postgres.WithPassword("locreg"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("run postgres: %w", err)
	}

	fail := func(err error) (*PostgresContainer, error) {
		_ = container.Terminate(ctx) //nolint:errcheck // best effort after a failed start
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail(fmt.Errorf("postgres dsn: %w", err))
	}
	if _, err := database.Migrate(dsn, migrations.FS); err != nil {
		return fail(fmt.Errorf("migrate: %w", err))
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fail(fmt.Errorf("open postgres: %w", err))
	}
	return &PostgresContainer{Container: container, DSN: dsn, DB: db}, nil
}

// TruncateAll empties every registry table in one statement.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(registryTables, ", ")+" CASCADE")
	if err != nil {
		return fmt.Errorf("truncate registry tables: %w", err)
	}
	return nil
}
