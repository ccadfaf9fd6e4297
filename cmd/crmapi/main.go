// Command crmapi serves the customer/address API from a local SQLite
// database for development against crmweb.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/crmweb/internal/backup"
	"winsbygroup.com/crmweb/internal/config"
	"winsbygroup.com/crmweb/internal/server"
	"winsbygroup.com/crmweb/internal/sqlite"
	"winsbygroup.com/crmweb/internal/version"
)

func main() {
	fmt.Println(version.Banner("crmapi"))

	//
	// Flags
	//
	configPath := flag.String("config", "config.yaml", "path to config file")
	routesFlag := flag.Bool("routes", false, "print routes and exit")
	demoFlag := flag.Bool("demo", false, "load sample data on new database (for demos)")
	backupFlag := flag.Bool("backup", false, "write a compressed SQL dump of the database and exit")
	schemaFlag := flag.Bool("schema", false, "print the database migrations and exit")
	flag.Parse()

	if *schemaFlag {
		fmt.Print(sqlite.Schema())
		os.Exit(0)
	}

	//
	// Load configuration
	//
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.DemoMode = *demoFlag

	//
	// Build server (Echo, DB, services, etc.)
	//
	srv, err := server.BuildDevAPI(cfg)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	//
	// Routes inspection mode
	//
	if *routesFlag {
		routes := srv.Echo.Routes()
		sort.Slice(routes, func(i, j int) bool {
			return routes[i].Path < routes[j].Path
		})

		for _, r := range routes {
			fmt.Printf("%-6s %s\n", r.Method, r.Path)
		}

		srv.Close(context.Background())
		os.Exit(0)
	}

	//
	// Backup mode
	//
	if *backupFlag {
		res, err := backup.NewService(srv.DB, cfg.DevAPI.DBPath).Create(context.Background())
		srv.Close(context.Background())
		if err != nil {
			log.Fatalf("backup failed: %v", err)
		}
		log.Printf("Backup written to '%s' (%d bytes)", res.Path, res.Size)
		os.Exit(0)
	}

	//
	// Normal server startup
	//
	go func() {
		if err := srv.Echo.StartServer(srv.HTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.Echo.Logger.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Echo.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
	if err := srv.Close(ctx); err != nil {
		log.Print(err)
	}
}
