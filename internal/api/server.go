package api

import (
	"database/sql"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/services"
)

// Server holds handler dependencies.
type Server struct {
	PracticeService services.PracticeService
	MasteryService  services.MasteryService
	DB              *sql.DB // health checks only
}
