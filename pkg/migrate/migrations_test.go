package migrate_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/migrate"
)

func TestPostgresMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"*_create_catalog_tables.sql": {
			"CREATE TABLE IF NOT EXISTS categories",
			"CREATE TABLE IF NOT EXISTS products",
			"CONSTRAINT uq_products_slug UNIQUE (slug)",
			"FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE",
			"price numeric(10,2) NOT NULL",
			"DROP TABLE IF EXISTS products",
		},
		"*_create_users_tables.sql": {
			"CONSTRAINT uq_users_username UNIQUE (username)",
			"CREATE TABLE IF NOT EXISTS user_profiles",
			"CREATE INDEX IF NOT EXISTS idx_user_profiles_phone",
		},
		"*_create_orders_tables.sql": {
			"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
			"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT",
			"CHECK (quantity > 0)",
			"DROP TABLE IF EXISTS order_items",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", "postgres", pattern))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration file found for %s", pattern)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestMigrationDialectsValidate(t *testing.T) {
	require.NoError(t, migrate.ValidateDialects("migrations"))
}

func TestValidateDialectsReportsMissingFile(t *testing.T) {
	base := t.TempDir()
	_, err := migrate.CreateSQLMigration(base, "create widgets")
	require.NoError(t, err)

	extra := filepath.Join(migrate.DirFor(base, "postgres"), "20990101000000_postgres_only.sql")
	require.NoError(t, os.WriteFile(extra, []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err = migrate.ValidateDialects(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-20990101000000_postgres_only.sql")
}

func TestRunSQLiteUpCreatesTables(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_run?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var out bytes.Buffer
	require.NoError(t, migrate.Run(context.Background(), sqlDB, "sqlite3", migrate.DirFor("migrations", "sqlite3"), "up", &out))
	assert.Contains(t, out.String(), "_create_orders_tables.sql")

	for _, table := range []string{"categories", "products", "users", "user_profiles", "orders", "order_items"} {
		require.True(t, conn.Migrator().HasTable(table), "expected table %s", table)
	}

	runner, err := migrate.NewRunner(sqlDB, "sqlite3", migrate.DirFor("migrations", "sqlite3"))
	require.NoError(t, err)
	require.NoError(t, runner.MigrateTo(context.Background(), "20260301120100"))
	require.False(t, conn.Migrator().HasTable("orders"))
	require.True(t, conn.Migrator().HasTable("users"))

	out.Reset()
	require.NoError(t, runner.Exec(context.Background(), "status", &out))
	assert.Contains(t, out.String(), "pending")

	_, err = migrate.NewRunner(sqlDB, "mysql", "migrations")
	assert.Error(t, err)
}

func TestCreateSQLMigrationWritesEveryDialect(t *testing.T) {
	base := t.TempDir()
	paths, err := migrate.CreateSQLMigration(base, "Add Product Tags")
	require.NoError(t, err)
	require.Len(t, paths, len(migrate.Dialects))
	for i, path := range paths {
		assert.True(t, strings.HasSuffix(path, "_add_product_tags.sql"))
		assert.Equal(t, migrate.DirFor(base, migrate.Dialects[i]), filepath.Dir(path))
	}
	assert.Equal(t, filepath.Base(paths[0]), filepath.Base(paths[1]))
	require.NoError(t, migrate.ValidateDialects(base))

	_, err = migrate.CreateSQLMigration(base, "   ")
	assert.Error(t, err)
}
