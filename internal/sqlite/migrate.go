package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/GuiaBolso/darwin"
	_ "github.com/mattn/go-sqlite3"
)

// ApplicationID is the SQLite application_id for crm databases.
// "CRMW" in ASCII: C=0x43, R=0x52, M=0x4D, W=0x57
const ApplicationID = 0x43524D57

// ErrInvalidDatabase is returned when the database is not a valid crm database.
var ErrInvalidDatabase = errors.New("not a valid 'crm' database")

// defineMigrations lists the schema steps in ascending version order.
// Released steps are frozen: darwin stores a checksum of each normalized
// script. Comments may only trail SQL on a line.
func defineMigrations() []darwin.Migration {
	m := []darwin.Migration{
		// 1.xx: initial customer/address schema
		// 0x43524D57 = "CRMW" in ASCII
		{Version: 1.00, Description: "Set application_id", Script: `
		PRAGMA application_id = 0x43524D57;`},

		{Version: 1.01, Description: "Create Table 'customer'", Script: `
		CREATE TABLE IF NOT EXISTS customer (
			customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(10) NOT NULL UNIQUE, -- stored as digits only
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`},

		{Version: 1.02, Description: "Create Table 'address'", Script: `
		CREATE TABLE IF NOT EXISTS address (
			address_id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			address_details VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL,
			state VARCHAR(255) NOT NULL,
			pin_code CHAR(6) NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customer (customer_id) ON DELETE CASCADE
		);`},

		{Version: 1.03, Description: "Create Index 'idx_address_customer_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_address_customer_id ON address (customer_id ASC);`},

		{Version: 1.04, Description: "Create Index 'idx_address_city'", Script: `
		CREATE INDEX IF NOT EXISTS idx_address_city ON address (city COLLATE NOCASE);`},
	}
	return m
}

// dbVersion is what darwin_migrations records: steps applied and the highest version
type dbVersion struct {
	steps   int
	version float64
}

func readVersion(db *sql.DB) (dbVersion, error) {
	var v dbVersion
	var tables int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE tbl_name = 'darwin_migrations'`).Scan(&tables)
	if err != nil || tables == 0 {
		return v, err // nothing migrated yet
	}
	err = db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(version), 0) FROM darwin_migrations`).Scan(&v.steps, &v.version)
	return v, err
}

// current reports whether every migration in ms has been applied
func (v dbVersion) current(ms []darwin.Migration) bool {
	return len(ms) > 0 && v.steps == len(ms) && v.version == ms[len(ms)-1].Version
}

func (v dbVersion) describe(from dbVersion) string {
	if from.version == v.version {
		return fmt.Sprintf("DB Version: %.2f", v.version)
	}
	return fmt.Sprintf("DB Version: %.2f (migrated from %.2f)", v.version, from.version)
}

// checksummed returns the migrations with scripts normalized, so that
// comment, case and whitespace edits keep a released step's checksum.
func checksummed() []darwin.Migration {
	ms := defineMigrations()
	for i := range ms {
		ms[i].Script = normalize(ms[i].Script)
	}
	return ms
}

// normalize lowercases script, drops "--" and "/*" comments up to the end of
// each line, and collapses all whitespace runs to a single space.
func normalize(script string) string {
	lines := strings.Split(strings.ToLower(script), "\n")
	for i, line := range lines {
		if j := strings.Index(line, "--"); j >= 0 {
			line = line[:j]
		}
		if j := strings.Index(line, "/*"); j >= 0 {
			line = line[:j]
		}
		lines[i] = line
	}
	return strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
}

func report(infos <-chan darwin.MigrationInfo) string {
	var b strings.Builder
	for info := range infos {
		fmt.Fprintf(&b, "v%.2f %q: %s", info.Migration.Version, info.Migration.Description, info.Status)
		if info.Error != nil {
			fmt.Fprintf(&b, " (%v)", info.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Schema lists every migration step for display, as written
func Schema() string {
	var b strings.Builder
	for _, m := range defineMigrations() {
		fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, strings.TrimSpace(m.Script))
	}
	return b.String()
}

// VerifyApplicationID accepts a crm database or an empty one. Anything else,
// including a populated database with no application_id, is ErrInvalidDatabase.
func VerifyApplicationID(db *sql.DB) error {
	var appID int
	if err := db.QueryRow(`PRAGMA application_id;`).Scan(&appID); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}
	switch {
	case appID == ApplicationID:
		return nil
	case appID != 0:
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	var tables int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tables > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations brings db up to the latest schema version
func RunMigrations(db *sql.DB) error {
	if err := VerifyApplicationID(db); err != nil {
		return err
	}

	before, err := readVersion(db)
	if err != nil {
		return err
	}
	ms := checksummed()
	if before.current(ms) {
		log.Printf("Database version %.2f is current, no migrations needed", before.version)
		return nil
	}

	infos := make(chan darwin.MigrationInfo, len(ms))
	migrateErr := darwin.New(darwin.NewGenericDriver(db, darwin.SqliteDialect{}), ms, infos).Migrate()
	close(infos)
	if migrateErr != nil {
		steps := report(infos)
		log.Printf("migration from v%.2f failed: %v\n%s", before.version, migrateErr, steps)
		return fmt.Errorf("migration error: %w\n%s", migrateErr, steps)
	}

	after, err := readVersion(db)
	if err != nil {
		return err
	}
	log.Print(after.describe(before))
	return nil
}
