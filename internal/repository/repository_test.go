package repository_test

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres runs a disposable Postgres with the schema applied and
// returns its connection string. The container is reaped when the test
// process exits.
func startPostgres(ctx context.Context) (string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../../migrations/01_products.up.sql",
			"../../migrations/02_orders.up.sql"),
	)
	if err != nil {
		return "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return connStr, nil
}
