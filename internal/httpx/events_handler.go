package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, userID int64, action string) error
}

type EventsHandler struct {
	pub     EventPublisher
	log     *slog.Logger
	timeout time.Duration
}

func (h *EventsHandler) Register(r chi.Router) {
	r.Post("/events/publish", h.publish)
}

// publish acknowledges as soon as the event is queued; broker delivery is
// reported asynchronously in the logs.
func (h *EventsHandler) publish(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := strconv.ParseInt(q.Get("userId"), 10, 64)
	if err != nil {
		writeError(w, r, h.log, apperr.NewBadRequest("invalid userId: %q", q.Get("userId")))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.pub.Publish(ctx, userID, q.Get("action")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeText(w, http.StatusOK, events.Acknowledgment)
}
