package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
)

// Deps carries the slice services. A nil service leaves its routes unmounted.
type Deps struct {
	Users    UserService
	Products ProductService
	Cache    CacheService
	Events   EventPublisher

	Log            *slog.Logger
	RequestTimeout time.Duration
}

func NewRouter(d Deps) *chi.Mux {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 5 * time.Second
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, WithAPIID, WithLogging(d.Log), WithRecover(d.Log))
	r.Use(middleware.Timeout(15 * time.Second))

	log := d.Log
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, apperr.New(apperr.NotFound, ""))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, apperr.New(apperr.MethodNotAllowed, ""))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	if d.Users != nil {
		(&UsersHandler{svc: d.Users, log: d.Log, timeout: d.RequestTimeout}).Register(r)
	}
	if d.Products != nil {
		(&ProductsHandler{svc: d.Products, log: d.Log, timeout: d.RequestTimeout}).Register(r)
	}
	if d.Cache != nil {
		(&CacheHandler{svc: d.Cache, log: d.Log, timeout: d.RequestTimeout}).Register(r)
	}
	if d.Events != nil {
		(&EventsHandler{pub: d.Events, log: d.Log, timeout: d.RequestTimeout}).Register(r)
	}
	return r
}
