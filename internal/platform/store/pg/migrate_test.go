package pg

import (
	"strings"
	"testing"
)

func TestMigrations_EmbeddedInOrder(t *testing.T) {
	t.Parallel()

	ms, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations error: %v", err)
	}
	if len(ms) == 0 {
		t.Fatalf("no embedded migrations")
	}
	if ms[0].Version != "0001_datalens" {
		t.Fatalf("first version = %q", ms[0].Version)
	}
	for i := 1; i < len(ms); i++ {
		if ms[i-1].Version >= ms[i].Version {
			t.Fatalf("migrations out of order: %s before %s", ms[i-1].Version, ms[i].Version)
		}
	}
	for _, table := range []string{"charts", "dashboards"} {
		if !strings.Contains(ms[0].SQL, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("schema missing %s table", table)
		}
	}
}
