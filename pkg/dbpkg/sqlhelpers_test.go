package dbpkg

import "testing"

func TestRebind(t *testing.T) {
	t.Parallel()

	query := "INSERT INTO t (a, b) VALUES ($1, $2)"

	if got, want := Rebind(DriverSQLite, query), "INSERT INTO t (a, b) VALUES (?1, ?2)"; got != want {
		t.Errorf("Rebind(sqlite) = %q, want %q", got, want)
	}

	if got := Rebind(DriverPostgres, query); got != query {
		t.Errorf("Rebind(postgres) = %q, want %q", got, query)
	}
}

func TestSetupUnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := Setup("mysql", "whatever"); err == nil {
		t.Error(`Setup("mysql", ...) returned nil error`)
	}
}
