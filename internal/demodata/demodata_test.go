package demodata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"winsbygroup.com/crmweb/internal/demodata"
	"winsbygroup.com/crmweb/internal/sqlite"
)

func openMigrated(t *testing.T, dbPath string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := sqlite.RunMigrations(db.DB); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TestDemoDataNotLoadedOnExistingDB verifies that demo data is only loaded
// when the database is newly created, not when it already exists.
// This mirrors the logic in server.BuildDevAPI() that checks isNewDB before loading.
func TestDemoDataNotLoadedOnExistingDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db := openMigrated(t, dbPath)
	_, err := db.Exec(`INSERT INTO customer (first_name, last_name, phone_number) VALUES ('Existing', 'Person', '1112223334')`)
	if err != nil {
		db.Close()
		t.Fatalf("insert existing customer: %v", err)
	}
	db.Close()

	isNewDB := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		isNewDB = true
	}
	if isNewDB {
		t.Fatal("expected isNewDB to be false for existing database")
	}

	db = openMigrated(t, dbPath)
	defer db.Close()

	demoMode := true
	if demoMode && isNewDB {
		if err := demodata.Load(db.DB); err != nil {
			t.Fatalf("load demo data: %v", err)
		}
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM customer`); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if count != 1 {
		t.Errorf("expected only the existing customer, got %d rows", count)
	}
}

// TestDemoDataLoadedOnNewDB verifies that demo data IS loaded on a fresh database.
func TestDemoDataLoadedOnNewDB(t *testing.T) {
	db := openMigrated(t, filepath.Join(t.TempDir(), "newtest.db"))
	defer db.Close()

	if err := demodata.Load(db.DB); err != nil {
		t.Fatalf("load demo data: %v", err)
	}

	var customers, addresses int
	if err := db.Get(&customers, `SELECT COUNT(*) FROM customer`); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if err := db.Get(&addresses, `SELECT COUNT(*) FROM address`); err != nil {
		t.Fatalf("count addresses: %v", err)
	}
	if customers != 12 {
		t.Errorf("expected 12 demo customers, got %d", customers)
	}
	if addresses != 13 {
		t.Errorf("expected 13 demo addresses, got %d", addresses)
	}
}

// TestDemoDataLoadIsAllOrNothing verifies a failed load leaves no partial rows.
func TestDemoDataLoadIsAllOrNothing(t *testing.T) {
	db := openMigrated(t, filepath.Join(t.TempDir(), "partial.db"))
	defer db.Close()

	// Reuse a sample phone number so the load fails
	if _, err := db.Exec(`INSERT INTO customer (customer_id, first_name, last_name, phone_number) VALUES (100, 'Taken', 'Phone', '9123456780')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := demodata.Load(db.DB); err == nil {
		t.Fatal("expected the load to fail on the duplicate phone number")
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM customer`); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the failed load to roll back, got %d customers", count)
	}
}
