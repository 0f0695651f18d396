// Package dbtest opens Postgres and MongoDB databases for repository tests.
// Tests are skipped unless the matching environment variable is set.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/redmonkez12/cvbuilder/internal/config"
	"github.com/redmonkez12/cvbuilder/internal/database"
)

const (
	PostgresEnv = "CVBUILDER_TEST_POSTGRES_DSN"
	MongoEnv    = "CVBUILDER_TEST_MONGO_URI"
)

// Postgres connects to the database named by CVBUILDER_TEST_POSTGRES_DSN and
// creates the schema. Rows are left in place, so callers use fresh ids.
func Postgres(t testing.TB) *bun.DB {
	t.Helper()

	dsn := os.Getenv(PostgresEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresEnv)
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	db := database.NewBunDB(sqlDB)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, database.CreateSchema(ctx, db))
	return db
}

// Mongo returns a fresh database on the server at CVBUILDER_TEST_MONGO_URI
// and drops it when the test ends.
func Mongo(t testing.TB) *mongo.Database {
	t.Helper()

	uri := os.Getenv(MongoEnv)
	if uri == "" {
		t.Skipf("%s not set", MongoEnv)
	}

	ctx := context.Background()
	client, err := database.NewMongoClient(ctx, config.MongoConfig{
		URI:            uri,
		Database:       "cvbuilder_test",
		PoolSize:       5,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	name := "cvbuilder_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	require.NoError(t, database.EnsureMongoIndexes(ctx, db))
	return db
}
