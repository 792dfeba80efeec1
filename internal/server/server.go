// ABOUTME: HTTP server for pronunciation downloads
// ABOUTME: Turns posted text into a WAV attachment and reports health
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/pronounce/internal/app"
	"github.com/harperreed/pronounce/internal/clip"
	"github.com/harperreed/pronounce/internal/speech"
	"github.com/harperreed/pronounce/internal/version"
	"github.com/harperreed/pronounce/pkg/audio"
	"github.com/harperreed/pronounce/pkg/audio/encode"
)

// maxRequestBody caps the JSON request size
const maxRequestBody = 64 * 1024

// Config holds server configuration
type Config struct {
	Port   int
	Name   string
	UseTUI bool
	Format audio.Format
}

// Server represents the pronunciation server
type Server struct {
	config   Config
	serverID string
	speech   speech.Client

	// HTTP server
	httpServer *http.Server
	mux        *http.ServeMux

	// Request stats
	statsMu sync.Mutex
	stats   Stats

	// TUI
	tui       *ServerTUI
	startTime time.Time

	// Control
	stopChan chan struct{}
	stopOnce sync.Once // Ensure Stop() is only called once
	wg       sync.WaitGroup
}

// Stats counts handled speech requests
type Stats struct {
	Requests   int64
	Succeeded  int64
	Failed     int64
	LastText   string
	LastResult string
}

type speechRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a new server instance
func New(config Config, client speech.Client) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("speech client is required")
	}
	if err := config.Format.Validate(); err != nil {
		return nil, fmt.Errorf("speech format: %w", err)
	}

	s := &Server{
		config:    config,
		serverID:  uuid.New().String(),
		speech:    client,
		mux:       http.NewServeMux(),
		startTime: time.Now(),
		stopChan:  make(chan struct{}),
	}

	s.mux.HandleFunc("POST /api/speech", s.handleSpeech)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Stats returns a copy of the request stats
func (s *Server) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// Start starts the server and blocks until Stop, a TUI quit or a listener error
func (s *Server) Start() error {
	refreshDone := make(chan struct{})
	refreshStopped := make(chan struct{})

	// Start TUI if enabled
	if s.config.UseTUI {
		s.tui = NewServerTUI(s.config.Name, s.config.Port)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tui.Start(s.config.Name, s.config.Port)
		}()

		// Give TUI time to initialize
		time.Sleep(100 * time.Millisecond)

		go func() {
			defer close(refreshStopped)
			s.refreshTUI(refreshDone, tuiRefreshInterval)
		}()
	}

	log.Printf("Server starting: %s (ID: %s)", s.config.Name, s.serverID)

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("HTTP server listening on %s", addr)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	var tuiQuitChan <-chan struct{}
	if s.tui != nil {
		tuiQuitChan = s.tui.QuitChan()
	}

	select {
	case <-s.stopChan:
		log.Printf("Server shutting down...")
	case <-tuiQuitChan:
		log.Printf("TUI quit requested, shutting down...")
	case err := <-errChan:
		log.Printf("HTTP server error: %v", err)
		serverErr = err
	}

	// In-flight speech requests may take a while
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Handlers and the refresher report to the TUI, so it stops after both are done
	close(refreshDone)
	if s.tui != nil {
		<-refreshStopped
		s.tui.Stop()
	}

	s.wg.Wait()
	log.Printf("Server stopped cleanly")

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// handleSpeech generates a clip and returns it as a download
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	start := time.Now()

	var req speechRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.Printf("Bad speech request [%s] from %s: %v", requestID, r.RemoteAddr, err)
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, app.MsgEmptyText)
		return
	}

	log.Printf("Speech request [%s] from %s: %d characters", requestID, r.RemoteAddr, len([]rune(text)))

	container, err := s.generate(r.Context(), text)
	if err != nil {
		log.Printf("Speech request failed [%s]: %v", requestID, err)
		s.record(text, false, "failed")
		writeError(w, http.StatusBadGateway, app.UserMessage(err))
		return
	}

	filename := clip.DownloadName(text)
	w.Header().Set("Content-Type", container.MIMEType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(container.Len()))
	w.Header().Set("X-Request-Id", requestID)

	elapsed := time.Since(start).Round(time.Millisecond)
	log.Printf("Speech ready [%s]: %s, %d bytes in %s", requestID, filename, container.Len(), elapsed)
	s.record(text, true, fmt.Sprintf("%s (%d bytes, %s)", filename, container.Len(), elapsed))

	w.WriteHeader(http.StatusOK)
	if _, err := container.WriteTo(w); err != nil {
		log.Printf("Error writing clip [%s]: %v", requestID, err)
	}
}

// generate requests speech and wraps it in a WAV container
func (s *Server) generate(ctx context.Context, text string) (*encode.Container, error) {
	payload, err := s.speech.RequestSpeech(ctx, text)
	if err != nil {
		return nil, err
	}

	container, err := encode.EncodeBase64(payload, s.config.Format)
	if err != nil {
		var fmtErr *encode.InvalidFormatError
		if errors.As(err, &fmtErr) {
			log.Printf("Server format is misconfigured: %v", err)
		}
		return nil, err
	}
	return container, nil
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"product": version.Product,
		"version": version.Version,
	})
}

// record updates the stats and pushes them to the TUI
func (s *Server) record(text string, ok bool, result string) {
	s.statsMu.Lock()
	s.stats.Requests++
	if ok {
		s.stats.Succeeded++
	} else {
		s.stats.Failed++
	}
	s.stats.LastText = text
	s.stats.LastResult = result
	s.statsMu.Unlock()

	s.updateTUI()
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
