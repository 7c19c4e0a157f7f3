package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/config"
	"github.com/GridlineHQ/gridline/backend/internal/infrastructure/server"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides PORT)")
	host := flag.String("host", "", "Bind address (overrides HOST)")
	flag.Parse()

	// Load configuration from environment
	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}

	// The stock binary ships without a reconstruction backend. Deployments
	// that carry one inject it here; until then the tomo service stays
	// unregistered and TOMO_ENABLED only logs a warning.
	srv, err := server.NewServer(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
