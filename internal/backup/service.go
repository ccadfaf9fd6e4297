// Package backup writes gzip-compressed SQL dumps of the dev API database.
package backup

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqliteTime is how SQLite's CURRENT_TIMESTAMP renders DATETIME values
const sqliteTime = "2006-01-02 15:04:05"

type Service struct {
	db     *sqlx.DB
	dbPath string
	now    func() time.Time
}

func NewService(db *sqlx.DB, dbPath string) *Service {
	return &Service{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}
}

// Result describes a completed backup
type Result struct {
	Filename string
	Path     string
	Size     int64
}

// Create dumps the database into backups/ next to the database file
func (s *Service) Create(ctx context.Context) (*Result, error) {
	backupDir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	// VACUUM INTO gives a consistent copy while the API keeps serving
	snapshot := filepath.Join(backupDir, "snapshot.db")
	os.Remove(snapshot)
	defer os.Remove(snapshot)
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, snapshot); err != nil {
		return nil, fmt.Errorf("vacuum into snapshot: %w", err)
	}

	snap, err := sqlx.Open("sqlite3", snapshot+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer snap.Close()

	filename := s.now().Format("2006-01-02_15.04.05") + "_crmdump.sql.gz"
	path := filepath.Join(backupDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := Dump(ctx, snap, gz, s.now()); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}
	return &Result{Filename: filename, Path: path, Size: info.Size()}, nil
}

// Dump writes the schema and every row of db to w as SQL statements
func Dump(ctx context.Context, db *sqlx.DB, w io.Writer, generated time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "-- CRM database backup\n-- Generated: %s\n", generated.Format(time.RFC3339))
	bw.WriteString("PRAGMA foreign_keys=OFF;\nBEGIN TRANSACTION;\n\n")

	var schemas []string
	err := db.SelectContext(ctx, &schemas, `
		SELECT sql
		FROM sqlite_master
		WHERE sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type WHEN 'table' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name
	`)
	if err != nil {
		return fmt.Errorf("query schema: %w", err)
	}
	for _, sql := range schemas {
		bw.WriteString(sql)
		bw.WriteString(";\n")
	}
	bw.WriteString("\n")

	var tables []string
	err = db.SelectContext(ctx, &tables, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return fmt.Errorf("query tables: %w", err)
	}
	for _, table := range tables {
		if err := dumpRows(ctx, db, bw, table); err != nil {
			return fmt.Errorf("dump %s: %w", table, err)
		}
	}

	bw.WriteString("COMMIT;\nPRAGMA foreign_keys=ON;\n")
	return bw.Flush()
}

func dumpRows(ctx context.Context, db *sqlx.DB, w *bufio.Writer, table string) error {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	prefix := fmt.Sprintf("INSERT INTO %q (%s) VALUES (", table, strings.Join(quoted, ", "))

	wrote := false
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return err
		}
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = literal(v)
		}
		w.WriteString(prefix)
		w.WriteString(strings.Join(values, ", "))
		w.WriteString(");\n")
		wrote = true
	}
	if wrote {
		w.WriteString("\n")
	}
	return rows.Err()
}

// literal renders a scanned value as a SQLite literal
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	case time.Time:
		return quote(val.UTC().Format(sqliteTime))
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return quote(fmt.Sprintf("%v", val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
