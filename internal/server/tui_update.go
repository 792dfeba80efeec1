// ABOUTME: TUI update helpers for server
// ABOUTME: Functions to send server state updates to TUI
package server

import "time"

// tuiRefreshInterval is how often the dashboard is refreshed between requests
const tuiRefreshInterval = time.Second

// updateTUI sends current server state to TUI
func (s *Server) updateTUI() {
	if s.tui == nil {
		return
	}

	stats := s.Stats()

	s.tui.Update(ServerStatus{
		Name:   s.config.Name,
		Port:   s.config.Port,
		Uptime: time.Since(s.startTime),
		Format: s.config.Format.String(),
		Stats:  stats,
	})
}

// refreshTUI pushes the server state once, then on every tick until done is closed
func (s *Server) refreshTUI(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.updateTUI()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.updateTUI()
		}
	}
}
