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

	"winsbygroup.com/crmweb/internal/config"
	"winsbygroup.com/crmweb/internal/server"
	"winsbygroup.com/crmweb/internal/version"
)

func main() {
	fmt.Println(version.Banner("crmweb"))

	//
	// Flags
	//
	configPath := flag.String("config", "config.yaml", "path to config file")
	routesFlag := flag.Bool("routes", false, "print routes and exit")
	flag.Parse()

	//
	// Load configuration
	//
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	//
	// Build server (Echo, API client, views, etc.)
	//
	srv, err := server.Build(cfg)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	//
	// Routes inspection mode
	//
	if *routesFlag {
		printRoutes(srv)
		os.Exit(0)
	}

	run(srv)
}

func printRoutes(srv *server.Server) {
	routes := srv.Echo.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	for _, r := range routes {
		fmt.Printf("%-6s %s\n", r.Method, r.Path)
	}
}

func run(srv *server.Server) {
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
