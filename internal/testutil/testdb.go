// Package testutil opens throwaway CRM databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/crmweb/internal/sqlite"
)

// NewTestDB returns a migrated database under t.TempDir(), closed on cleanup.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "test.db"))
}

// NewTestDBAt is NewTestDB for callers that need the file path, such as backups.
func NewTestDBAt(t *testing.T, dbPath string) *sqlx.DB {
	t.Helper()

	// The DSN parameter enables foreign keys on every pooled connection
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=DELETE")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var fk int
	if err := db.Get(&fk, `PRAGMA foreign_keys;`); err != nil || fk != 1 {
		t.Fatalf("foreign keys not enabled (value %d): %v", fk, err)
	}
	if err := sqlite.RunMigrations(db.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// AddCustomer inserts a customer row directly and returns its id.
func AddCustomer(t *testing.T, db *sqlx.DB, first, last, phone string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO customer (first_name, last_name, phone_number) VALUES (?, ?, ?)`, first, last, phone)
	if err != nil {
		t.Fatalf("add customer %s %s: %v", first, last, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// AddAddress inserts an address in city for customerID and returns its id.
func AddAddress(t *testing.T, db *sqlx.DB, customerID int64, city string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO address (customer_id, address_details, city, state, pin_code) VALUES (?, ?, ?, ?, ?)`,
		customerID, "1 Main Road", city, "Karnataka", "560001")
	if err != nil {
		t.Fatalf("add address in %s: %v", city, err)
	}
	id, _ := res.LastInsertId()
	return id
}
