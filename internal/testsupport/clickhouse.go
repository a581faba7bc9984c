package testsupport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hypewatch/internal/adapters/clickhouse"
	"hypewatch/internal/adapters/config"
)

// ClickHouseTestHelper manages cleanup for ClickHouse integration tests.
type ClickHouseTestHelper struct {
	client *clickhouse.Client
}

// NewClickHouseTestHelper creates a ClickHouse client for tests.
func NewClickHouseTestHelper(t *testing.T, cfg config.ClickHouseConfig) *ClickHouseTestHelper {
	t.Helper()

	client, err := clickhouse.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to connect to clickhouse: %v", err)
	}

	helper := &ClickHouseTestHelper{client: client}
	t.Cleanup(func() { _ = client.Close() })
	return helper
}

// NewTestClickHouse creates a helper with config loaded from the environment.
func NewTestClickHouse(t *testing.T) *ClickHouseTestHelper {
	t.Helper()
	return NewClickHouseTestHelper(t, LoadDatabaseConfigsFromEnv(t).ClickHouse)
}

// Client returns the underlying ClickHouse client.
func (h *ClickHouseTestHelper) Client() *clickhouse.Client {
	return h.client
}

// RegisterTableCleanup schedules deletion of table rows matching a condition
// after the test completes. Useful for shared tables that must not be dropped.
func (h *ClickHouseTestHelper) RegisterTableCleanup(t *testing.T, table, condition string) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, condition)
		_ = h.client.Conn().Exec(ctx, query)
	})
}
