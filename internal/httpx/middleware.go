package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
)

const HeaderAPIID = "X-Api-Id"

type ctxKey int

const ctxKeyAPIID ctxKey = iota

func APIIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyAPIID).(string)
	return v
}

// WithAPIID tags every request with a correlation id, reusing the caller's
// X-Api-Id when present and echoing it on the response.
func WithAPIID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderAPIID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderAPIID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyAPIID, id)))
	})
}

func WithLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.InfoContext(r.Context(), "http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
				"request_id", middleware.GetReqID(r.Context()),
				"api_id", APIIDFromContext(r.Context()),
			)
		})
	}
}

// WithRecover turns a handler panic into a logged INTERNAL error body.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func WithRecover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				log.ErrorContext(r.Context(), "panic recovered",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
					"request_id", middleware.GetReqID(r.Context()),
				)
				writeError(w, r, log, apperr.NewInternal("", fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
