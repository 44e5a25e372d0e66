package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, filepath.Join("postgres", "*_create_catalog_tables.sql"))

	checks := []string{
		"CREATE TYPE product_type AS ENUM",
		"CREATE TABLE IF NOT EXISTS brands",
		"CONSTRAINT uq_brands_name UNIQUE (name)",
		"CONSTRAINT uq_brands_slug UNIQUE (slug)",
		"CONSTRAINT uq_brands_url UNIQUE (url)",
		"CREATE TABLE IF NOT EXISTS categories",
		"parent_id uuid REFERENCES categories(id) ON DELETE SET NULL",
		"CONSTRAINT uq_products_sku UNIQUE (sku)",
		"category_id uuid NOT NULL REFERENCES categories(id) ON DELETE CASCADE",
		"product_id uuid NOT NULL REFERENCES products(id) ON DELETE CASCADE",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, filepath.Join("postgres", "*_create_customers_and_orders.sql"))

	checks := []string{
		"CREATE TYPE order_status AS ENUM ('pending', 'processing', 'completed', 'declined')",
		"customer_id uuid NOT NULL REFERENCES customers(id) ON DELETE CASCADE",
		"CONSTRAINT uq_orders_number UNIQUE (number)",
		"order_id uuid NOT NULL REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (quantity BETWEEN 1 AND 100)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDialectDirsShareVersions(t *testing.T) {
	pg, err := filepath.Glob(filepath.Join("migrations", "postgres", "*.sql"))
	if err != nil {
		t.Fatalf("glob postgres: %v", err)
	}
	lite, err := filepath.Glob(filepath.Join("migrations", "sqlite", "*.sql"))
	if err != nil {
		t.Fatalf("glob sqlite: %v", err)
	}
	if len(pg) != len(lite) {
		t.Fatalf("expected same number of migrations, got postgres=%d sqlite=%d", len(pg), len(lite))
	}
	for i := range pg {
		if filepath.Base(pg[i]) != filepath.Base(lite[i]) {
			t.Fatalf("migration mismatch %s vs %s", filepath.Base(pg[i]), filepath.Base(lite[i]))
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	for _, dir := range []string{"migrations/postgres", "migrations/sqlite"} {
		if err := migrate.ValidateDir(dir); err != nil {
			t.Fatalf("ValidateDir(%s): %v", dir, err)
		}
	}
}

func TestValidateDirRejectsBadName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Brand Index")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_brand_index.sql") {
		t.Fatalf("unexpected path %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestDirFor(t *testing.T) {
	if _, err := migrate.DirFor("mysql"); err == nil {
		t.Fatal("expected unsupported dialect error")
	}
	if got := migrate.DialectForDriver("sqlite"); got != migrate.DialectSQLite {
		t.Fatalf("expected sqlite3 dialect, got %s", got)
	}
	if got := migrate.DialectForDriver("postgres"); got != migrate.DialectPostgres {
		t.Fatalf("expected postgres dialect, got %s", got)
	}
}

func TestCreatePairSharesVersion(t *testing.T) {
	root := t.TempDir()
	paths, err := migrate.CreatePair(root, "Add order notes index")
	if err != nil {
		t.Fatalf("CreatePair: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected one file per dialect, got %v", paths)
	}
	if filepath.Base(paths[0]) != filepath.Base(paths[1]) {
		t.Fatalf("dialect files should share a name: %v", paths)
	}
	if err := migrate.ValidateTree(root); err != nil {
		t.Fatalf("created pair should validate: %v", err)
	}
}

func TestValidateTreeDetectsDrift(t *testing.T) {
	root := t.TempDir()
	if _, err := migrate.CreatePair(root, "base"); err != nil {
		t.Fatalf("CreatePair: %v", err)
	}
	extra := filepath.Join(root, "postgres", "29990101000000_only_postgres.sql")
	if err := os.WriteFile(extra, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateTree(root); err == nil {
		t.Fatal("expected drift between dialects to fail")
	}
}

func TestValidateTreeAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateTree("migrations"); err != nil {
		t.Fatalf("ValidateTree: %v", err)
	}
}
