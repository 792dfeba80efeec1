// ABOUTME: Entry point for the UK pronunciation generator
// ABOUTME: Parses CLI flags and runs the TUI or a one-shot generation
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/pronounce/internal/app"
	"github.com/harperreed/pronounce/internal/clip"
	"github.com/harperreed/pronounce/internal/config"
	"github.com/harperreed/pronounce/internal/player"
	"github.com/harperreed/pronounce/internal/speech"
	"github.com/harperreed/pronounce/internal/ui"
	"github.com/harperreed/pronounce/internal/version"
	"github.com/harperreed/pronounce/pkg/audio/output"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	text := flag.String("text", "", "Text to pronounce (skips the TUI)")
	play := flag.Bool("play", false, "Play the clip after a one-shot generation")
	volume := flag.Int("volume", 100, "Playback volume (0-100)")
	outputRate := flag.Int("output-rate", 0, "Resample clips to this rate for playback (0 = clip rate)")
	logFile := flag.String("log-file", "pronounce.log", "Log file path")
	noTUI := flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	showVersion := flag.Bool("version", false, "Print version and exit")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
		return
	}

	// A one-shot run never starts the TUI
	useTUI := !*noTUI && *text == ""

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	client, err := speech.NewGemini(cfg.SpeechConfig())
	if err != nil {
		log.Fatalf("Failed to create speech client: %v", err)
	}

	store, err := clip.NewStore(cfg.ClipDir())
	if err != nil {
		log.Fatalf("Failed to create clip store: %v", err)
	}

	gen, err := app.New(app.Config{
		Speech: client,
		Store:  store,
		Format: cfg.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}
	defer func() {
		if err := gen.Close(); err != nil {
			log.Printf("Error releasing clip: %v", err)
		}
	}()

	p := player.New(output.NewOto())
	p.SetVolume(*volume)
	p.SetOutputRate(*outputRate)

	log.Printf("Starting %s %s (model %s, voice %s)", version.Product, version.Version, cfg.Model, cfg.Voice)

	if !useTUI {
		if *text == "" {
			log.Printf("Nothing to do: pass -text or run without -no-tui")
			return
		}
		if err := runOnce(gen, store, p, *text, cfg.OutputDir, *play); err != nil {
			fmt.Fprintln(os.Stderr, app.UserMessage(err))
			log.Printf("Generation failed: %v", err)
			gen.Close()
			f.Close()
			os.Exit(1)
		}
		return
	}

	prog, err := ui.Run(ui.Deps{
		Generator: gen,
		Player:    p,
		Exporter:  store,
		ExportDir: cfg.OutputDir,
	})
	if err != nil {
		log.Fatalf("Failed to start TUI: %v", err)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Shutdown signal received")
		prog.Quit()
	}()

	if _, err := prog.Run(); err != nil {
		log.Printf("TUI error: %v", err)
	}

	log.Printf("Stopped")
}

// runOnce generates a single clip, saves it and optionally plays it
func runOnce(gen *app.Generator, store *clip.Store, p *player.Player, text, outDir string, play bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := gen.Generate(ctx, text)
	if err != nil {
		return err
	}

	path, err := store.Export(c, outDir)
	if err != nil {
		return fmt.Errorf("failed to save clip: %w", err)
	}
	fmt.Printf("Saved %s (%s, %d bytes)\n", path, c.Format, c.Size)

	if play {
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return fmt.Errorf("failed to read clip: %w", err)
		}
		if err := p.Play(data); err != nil {
			return fmt.Errorf("failed to play clip: %w", err)
		}
	}

	return nil
}
