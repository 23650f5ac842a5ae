package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleTranslatorStats(w http.ResponseWriter, r *http.Request) {
	tr := s.orchestrator.Translator()
	if tr == nil || tr.Stats == nil {
		jsonError(w, "translator stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       tr.Stats.Snapshot(),
	})
}
