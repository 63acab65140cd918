package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/middleware"
)

const (
	msgUnauthorized    = "Unauthorized"
	msgMissingID       = "Missing Id"
	msgInternal        = "Internal server error"
	msgInvalidAccount  = "Provide a valid account!"
	msgInvalidCategory = "Provide a valid category!"
)

// base carries what every ledger handler needs besides its store.
type base struct {
	logger    *slog.Logger
	publisher events.Publisher
}

func newBase(publisher events.Publisher, logger *slog.Logger) base {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{logger: logger, publisher: publisher}
}

// caller returns the authenticated user id. Routes are always wrapped by the
// auth gate, so a miss only happens when a route is registered unprotected.
func (b base) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		respond.Error(w, http.StatusUnauthorized, msgUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func (b base) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	b.logger.ErrorContext(r.Context(), op+" failed",
		"request_id", middleware.RequestID(r.Context()),
		"error", err,
	)
	respond.Error(w, http.StatusInternalServerError, msgInternal)
}

// publish emits event without failing the request.
func (b base) publish(ctx context.Context, event events.Event) {
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.WarnContext(ctx, "publish event failed",
			"request_id", middleware.RequestID(ctx),
			"event", event.Type,
			"resource_id", event.ResourceID,
			"error", err,
		)
	}
}
