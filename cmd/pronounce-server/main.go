// ABOUTME: Entry point for the pronunciation HTTP server
// ABOUTME: Parses CLI flags and serves WAV downloads for posted text
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/pronounce/internal/config"
	"github.com/harperreed/pronounce/internal/server"
	"github.com/harperreed/pronounce/internal/speech"
	"github.com/harperreed/pronounce/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	port := flag.Int("port", 8080, "HTTP server port")
	name := flag.String("name", "", "Server friendly name (default: hostname-pronounce-server)")
	logFile := flag.String("log-file", "pronounce-server.log", "Log file path")
	useTUI := flag.Bool("tui", false, "Show a status TUI instead of streaming logs")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if *useTUI {
		log.SetOutput(f)
	} else {
		// Log to both file and stdout
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Determine server name
	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-pronounce-server", hostname)
	}

	log.Printf("Starting %s %s: %s on port %d", version.Product, version.Version, serverName, *port)
	log.Printf("Speech model %s, voice %s, format %s", cfg.Model, cfg.Voice, cfg.Format)
	log.Printf("Logging to: %s", *logFile)
	log.Printf("Press Ctrl-C to stop")

	client, err := speech.NewGemini(cfg.SpeechConfig())
	if err != nil {
		log.Fatalf("Failed to create speech client: %v", err)
	}

	srv, err := server.New(server.Config{
		Port:   *port,
		Name:   serverName,
		UseTUI: *useTUI,
		Format: cfg.Format,
	}, client)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
