package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/finance-be/internal/http/respond"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether the ledger database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports uptime and database reachability.
type HealthHandler struct {
	db        Pinger
	startedAt time.Time
	logger    *slog.Logger
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(db Pinger, startedAt time.Time, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{db: db, startedAt: startedAt, logger: logger}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

// handle answers 503 while the database is unreachable.
func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startedAt).Truncate(time.Second).String(),
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database ping failed", "error", err)
		res.Status = "degraded"
		res.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	respond.JSON(w, status, res)
}
