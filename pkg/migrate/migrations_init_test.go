package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medlinkvn/dms-backend/pkg/migrate"
)

func TestInitMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE order_status AS ENUM ('PENDING', 'CONFIRMED', 'DELIVERED', 'CANCELLED')",
		"CREATE TYPE user_role AS ENUM ('admin', 'rep')",
		"CREATE TABLE users",
		"CREATE TABLE products",
		"CREATE TABLE customers",
		"CREATE TABLE promotion_rules",
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"CHECK (conversion_rate >= 1)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
