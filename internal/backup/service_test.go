package backup_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/crmweb/internal/address"
	"winsbygroup.com/crmweb/internal/backup"
	"winsbygroup.com/crmweb/internal/customer"
	"winsbygroup.com/crmweb/internal/testutil"
)

func seed(t *testing.T, db *sqlx.DB) {
	t.Helper()
	ctx := context.Background()

	c, err := customer.NewService(db).Create(ctx, &customer.Customer{
		FirstName:   "Ravi",
		LastName:    "D'Souza",
		PhoneNumber: "9876543210",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	_, err = address.NewService(db).Create(ctx, &address.Address{
		CustomerID:     c.CustomerID,
		AddressDetails: "12 MG Road",
		City:           "Bengaluru",
		State:          "Karnataka",
		PinCode:        "560001",
	})
	if err != nil {
		t.Fatalf("create address: %v", err)
	}
}

func TestCreate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "crm.db")
	db := testutil.NewTestDBAt(t, dbPath)
	seed(t, db)

	result, err := backup.NewService(db, dbPath).Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasSuffix(result.Filename, "_crmdump.sql.gz") {
		t.Errorf("expected filename to end with _crmdump.sql.gz, got %s", result.Filename)
	}
	if result.Size == 0 {
		t.Error("expected size > 0")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dbPath), "backups", "snapshot.db")); !os.IsNotExist(err) {
		t.Error("expected the snapshot database to be removed")
	}

	file, err := os.Open(result.Path)
	if err != nil {
		t.Fatalf("open backup file: %v", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("create gzip reader: %v", err)
	}
	content, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("read gzip content: %v", err)
	}

	dump := string(content)
	for _, want := range []string{
		"CREATE TABLE",
		`INSERT INTO "customer"`,
		`INSERT INTO "address"`,
		"'D''Souza'",
		"'Bengaluru'",
		"BEGIN TRANSACTION",
		"COMMIT",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("expected dump to contain %q", want)
		}
	}
}

func TestDumpRestores(t *testing.T) {
	src := testutil.NewTestDB(t)
	seed(t, src)

	var buf bytes.Buffer
	if err := backup.Dump(context.Background(), src, &buf, time.Now()); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	dst, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "restored.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dst.Close()
	if _, err := dst.Exec(buf.String()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	var got customer.Customer
	if err := dst.Get(&got, `SELECT customer_id, first_name, last_name, phone_number, created_at FROM customer`); err != nil {
		t.Fatalf("read restored customer: %v", err)
	}
	if got.LastName != "D'Souza" || got.CreatedAt.IsZero() {
		t.Errorf("restored customer = %+v", got)
	}

	var n int
	if err := dst.Get(&n, `SELECT COUNT(*) FROM address`); err != nil || n != 1 {
		t.Errorf("restored addresses = %d (%v), want 1", n, err)
	}
}
