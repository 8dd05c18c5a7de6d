package api

import (
	"net/http"
)

func (s *Server) handleMatchStats(w http.ResponseWriter, r *http.Request) {
	holder := s.orchestrator.Matcher().Catalogs
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":           s.orchestrator.Stats(),
		"queue_depth":     s.orchestrator.QueueDepth(),
		"catalog":         holder.Current().Name,
		"catalog_reloads": holder.Reloads(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator.Matcher().Catalogs.Current())
}
