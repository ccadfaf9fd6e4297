package server

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"go.nhat.io/otelsql"

	mwecho "github.com/labstack/echo/v4/middleware"

	"winsbygroup.com/crmweb/internal/address"
	"winsbygroup.com/crmweb/internal/config"
	"winsbygroup.com/crmweb/internal/customer"
	"winsbygroup.com/crmweb/internal/demodata"
	"winsbygroup.com/crmweb/internal/devapi"
	"winsbygroup.com/crmweb/internal/sqlite"
)

// BuildDevAPI wires the SQLite-backed development API under /api
func BuildDevAPI(cfg *config.Config) (*Server, error) {
	s := &Server{}
	dc := cfg.DevAPI

	//
	// Telemetry
	//
	var tel dbTelemetry
	if cfg.TraceStdout {
		tp, err := newTracerProvider()
		if err != nil {
			return nil, err
		}
		mp, err := newMeterProvider()
		if err != nil {
			return nil, err
		}
		s.shutdown = append(s.shutdown, tp.Shutdown, mp.Shutdown)
		tel.driver = append(tel.driver,
			otelsql.WithTracerProvider(tp),
			otelsql.WithMeterProvider(mp),
			otelsql.TraceQueryWithoutArgs(),
			otelsql.AllowRoot(),
		)
		tel.stats = append(tel.stats, otelsql.WithMeterProvider(mp))
		log.Print("Tracing SQL to stdout")
	}

	//
	// Database
	//
	isNewDB := false
	if _, err := os.Stat(dc.DBPath); os.IsNotExist(err) {
		isNewDB = true
		log.Printf("Creating database '%s' (from %s setting)", dc.DBPath, dc.DBPathSource)
	} else {
		log.Printf("Opening database '%s' (from %s setting)", dc.DBPath, dc.DBPathSource)
	}
	db, err := openDB(dc.DBPath, tel)
	if err != nil {
		return nil, err
	}
	s.DB = db

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, err
	}

	// Load demo data if requested and database is new
	if cfg.DemoMode && isNewDB {
		if err := demodata.Load(db.DB); err != nil {
			db.Close()
			return nil, errors.New("failed to load demo data: " + err.Error())
		}
		log.Print("Demo data loaded")
	}

	//
	// Services and handlers
	//
	apiSvc := devapi.NewService(customer.NewService(db), address.NewService(db))
	apiHandler := devapi.NewHandler(apiSvc)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := db.Ping(); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	// Middleware
	e.Use(mwecho.Logger())
	e.Use(mwecho.Recover())

	devapi.RegisterRoutes(e.Group("/api"), apiHandler)

	//
	// HTTP server
	//
	s.Echo = e
	s.HTTP = &http.Server{
		Addr:         dc.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// dbTelemetry holds the otelsql options for the driver and the pool stats.
// Left empty, otelsql reports to the global no-op providers.
type dbTelemetry struct {
	driver []otelsql.DriverOption
	stats  []otelsql.StatsOption
}

// openDB opens dbPath through an otelsql-wrapped sqlite3 driver
func openDB(dbPath string, tel dbTelemetry) (*sqlx.DB, error) {
	driverName, err := otelsql.Register("sqlite3", append(tel.driver, otelsql.WithDatabaseName("crm"))...)
	if err != nil {
		return nil, fmt.Errorf("register sql driver: %w", err)
	}

	// Foreign key support is required on every connection for cascade deletes
	raw, err := sql.Open(driverName, dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := otelsql.RecordStats(raw, tel.stats...); err != nil {
		raw.Close()
		return nil, fmt.Errorf("record db stats: %w", err)
	}

	db := sqlx.NewDb(raw, "sqlite3")
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func prepareDB(db *sqlx.DB) error {
	// WAL mode is only required once after creating the database, but
	// doesn't hurt to set it each time
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}

	// Verify foreign keys are supported and enabled
	var fkEnabled int
	if err := db.QueryRow(`PRAGMA foreign_keys;`).Scan(&fkEnabled); err != nil {
		return errors.New("SQLite foreign key support check failed: " + err.Error())
	}
	if fkEnabled != 1 {
		return errors.New("SQLite foreign keys not supported (requires SQLite 3.6.19+ compiled without SQLITE_OMIT_FOREIGN_KEY)")
	}

	return sqlite.RunMigrations(db.DB)
}
