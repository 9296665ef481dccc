package api

import (
	"net/http"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			logger.FromContext(r.Context()).Error("health check failed: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, r, code, map[string]string{"status": status})
}
