package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mussa52/madalali-tz/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestPropertiesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_properties.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS properties",
		"FOREIGN KEY (agent_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (price >= 0)",
		"CHECK (views_count >= 0)",
		"DEFAULT 'pending'",
		"DROP TABLE IF EXISTS properties",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInquiriesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inquiries.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inquiries",
		"FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE",
		"FOREIGN KEY (client_id) REFERENCES users(id) ON DELETE CASCADE",
		"DEFAULT 'new'",
		"DROP TABLE IF EXISTS inquiries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

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
