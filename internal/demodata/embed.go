// Package demodata seeds a new development database with sample customers
// and addresses so the front end has something to page through.
package demodata

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sample.sql
var sampleSQL string

// Load inserts the sample rows in one transaction. Run it only on a freshly
// migrated database: the sample customers carry fixed ids and phone numbers.
func Load(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(sampleSQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("sample data: %w", err)
	}
	return tx.Commit()
}
