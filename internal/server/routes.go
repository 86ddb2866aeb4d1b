package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/finlens/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Statements
	mux.HandleFunc("/api/financial/chart", s.handleFinancialChart)
	mux.HandleFunc("/api/financial", s.handleFinancial)

	// Companies
	mux.HandleFunc("/api/companies/search", s.handleCompanySearch)

	// Narrative
	mux.HandleFunc("/api/analysis", s.handleAnalysis)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"storage": s.app.Storage != nil,
		"llm":     s.app.GeminiClient != nil,
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
