package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/demo"
	"github.com/sentra-project/sentra/internal/engine"
	"github.com/sentra-project/sentra/internal/feed"
)

// Server is the Sentra REST API. It is the narrow interface the surrounding
// UI layer consumes; the core never depends on it.
type Server struct {
	engine *engine.Engine
	server *http.Server
	logger zerolog.Logger
}

// NewServer creates an API server bound to engine.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{
		engine: eng,
		logger: eng.Logger.With().Str("component", "api_server").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/detect", s.handleDetect)
	mux.HandleFunc("/api/v1/seclog", s.handleSecLog)
	mux.HandleFunc("/api/v1/seclog/clear", s.handleSecLogClear)
	mux.HandleFunc("/api/v1/threatlevel", s.handleThreatLevel)
	mux.HandleFunc("/api/v1/threats", s.handleThreats)
	mux.HandleFunc("/api/v1/siem", s.handleSIEM)
	mux.HandleFunc("/api/v1/siem/inject", s.handleSIEMInject)
	mux.HandleFunc("/api/v1/visibility", s.handleVisibility)
	mux.HandleFunc("/api/v1/demo/start", s.handleDemoStart)
	mux.HandleFunc("/api/v1/demo/stop", s.handleDemoStop)
	mux.HandleFunc("/api/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)

	handler := corsMiddleware(
		loggingMiddleware(mux, s.logger),
		eng.Config.API.CORSOrigins,
	)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", eng.Config.API.Host, eng.Config.API.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start runs the server until Shutdown. Blocks.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ─── Handlers ────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	scanned, detected := s.engine.Detector.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"threat_level":   s.engine.Threat.Level(),
		"seclog_entries": s.engine.Store.Len(),
		"scanned":        scanned,
		"detected":       detected,
		"demo_running":   s.engine.Demo.Running(),
		"bus_connected":  s.engine.Bus != nil && s.engine.Bus.IsConnected(),
		"uptime_seconds": int64(s.engine.Uptime().Seconds()),
	})
}

type detectRequest struct {
	Input  string `json:"input"`
	Source string `json:"source"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Source == "" {
		req.Source = "API"
	}
	detected := s.engine.Detector.Detect(req.Input, req.Source)
	writeJSON(w, http.StatusOK, map[string]any{
		"detected":     detected,
		"threat_level": s.engine.Threat.Level(),
	})
}

func (s *Server) handleSecLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Store.Snapshot())
}

func (s *Server) handleSecLogClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.engine.Store.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleThreatLevel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"threat_level": s.engine.Threat.Level()})
}

func (s *Server) handleThreats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.RecentThreats())
}

func (s *Server) handleSIEM(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	// ?seed=1 returns a fresh pre-seed batch instead of the live backlog.
	if r.URL.Query().Get("seed") == "1" {
		writeJSON(w, http.StatusOK, s.engine.LogFeed.InitialBacklog())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.LogFeed.Backlog())
}

func (s *Server) handleSIEMInject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var entry feed.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.engine.LogFeed.AddLog(&entry)
	writeJSON(w, http.StatusAccepted, &entry)
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.engine.ThreatFeed.SetVisible(req.Visible)
	writeJSON(w, http.StatusOK, map[string]bool{"visible": req.Visible})
}

func (s *Server) handleDemoStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if s.engine.Demo.Running() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already running"})
		return
	}
	go s.engine.Demo.Run(s.engine.Context(), demo.DefaultTimeline())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleDemoStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.engine.Demo.Cancel()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var entry feed.LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	result := s.engine.Analyst.Analyze(r.Context(), &entry)
	writeJSON(w, http.StatusOK, result)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
