package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/cache"
)

type CacheService interface {
	CreateProfile(ctx context.Context, p cache.Profile) (cache.Profile, error)
	GetProfile(ctx context.Context, id string) (*cache.Profile, error)
	DeleteProfile(ctx context.Context, id string) error

	AddRecentItem(ctx context.Context, userID, itemID string) error
	RecentItems(ctx context.Context, userID string) ([]string, error)

	AddToCart(ctx context.Context, userID string, itemIDs ...string) error
	Cart(ctx context.Context, userID string) ([]string, error)
	RemoveFromCart(ctx context.Context, userID string, itemIDs ...string) error

	IncrementViewCount(ctx context.Context, itemID string) (int64, error)
	ViewCount(ctx context.Context, itemID string) (int64, error)

	SearchKeys(ctx context.Context, pattern string) ([]string, error)

	SetEntry(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error
	Entry(ctx context.Context, key string) (json.RawMessage, bool, error)
	DeleteEntry(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type ProfileReq struct {
	ID       string `json:"id"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Age      int    `json:"age" validate:"gte=0"`
}

type CacheHandler struct {
	svc     CacheService
	log     *slog.Logger
	timeout time.Duration
}

func (h *CacheHandler) Register(r chi.Router) {
	r.Route("/cache", func(r chi.Router) {
		r.Post("/users", h.createProfile)
		r.Get("/users/{id}", h.getProfile)
		r.Delete("/users/{id}", h.deleteProfile)

		r.Post("/users/{id}/recent", h.addRecent)
		r.Get("/users/{id}/recent", h.recent)

		r.Post("/users/{id}/cart", h.addToCart)
		r.Get("/users/{id}/cart", h.cart)
		r.Delete("/users/{id}/cart", h.removeFromCart)

		r.Post("/items/{id}/view", h.incrementViews)
		r.Get("/items/{id}/views", h.views)

		r.Get("/keys", h.searchKeys)

		r.Put("/entries/{key}", h.setEntry)
		r.Get("/entries/{key}", h.getEntry)
		r.Delete("/entries/{key}", h.deleteEntry)
		r.Get("/entries/{key}/exists", h.entryExists)
		r.Get("/entries/{key}/ttl", h.entryTTL)
	})
}

func (h *CacheHandler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *CacheHandler) createProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	p, err := h.svc.CreateProfile(ctx, cache.Profile{ID: req.ID, Username: req.Username, Email: req.Email, Age: req.Age})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// getProfile maps an absent or expired profile to NOT_FOUND.
func (h *CacheHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	p, err := h.svc.GetProfile(ctx, id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if p == nil {
		writeError(w, r, h.log, apperr.NewNotFound("profile not found. id=%s", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CacheHandler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	if err := h.svc.DeleteProfile(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) addRecent(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("itemId")
	if itemID == "" {
		writeError(w, r, h.log, apperr.NewBadRequest("itemId is required"))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	if err := h.svc.AddRecentItem(ctx, chi.URLParam(r, "id"), itemID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) recent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	items, err := h.svc.RecentItems(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

func (h *CacheHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var items []string
	if err := decodeJSON(r, &items); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	if err := h.svc.AddToCart(ctx, chi.URLParam(r, "id"), items...); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) cart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	items, err := h.svc.Cart(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(items))
}

func (h *CacheHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var items []string
	if err := decodeJSON(r, &items); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	if err := h.svc.RemoveFromCart(ctx, chi.URLParam(r, "id"), items...); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) incrementViews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	n, err := h.svc.IncrementViewCount(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *CacheHandler) views(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	n, err := h.svc.ViewCount(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *CacheHandler) searchKeys(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	keys, err := h.svc.SearchKeys(ctx, r.URL.Query().Get("pattern"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(keys))
}

func (h *CacheHandler) setEntry(w http.ResponseWriter, r *http.Request) {
	var ttl time.Duration
	if raw := r.URL.Query().Get("ttlMinutes"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 0 {
			writeError(w, r, h.log, apperr.NewBadRequest("invalid ttlMinutes: %q", raw))
			return
		}
		ttl = time.Duration(m) * time.Minute
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, r, h.log, apperr.NewBadRequest("read body: %v", err))
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	if err := h.svc.SetEntry(ctx, chi.URLParam(r, "key"), body, ttl); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) getEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	key := chi.URLParam(r, "key")
	v, ok, err := h.svc.Entry(ctx, key)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !ok {
		writeError(w, r, h.log, apperr.NewNotFound("cache entry not found. key=%s", key))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CacheHandler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	if _, err := h.svc.DeleteEntry(ctx, chi.URLParam(r, "key")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) entryExists(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	ok, err := h.svc.Exists(ctx, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// entryTTL answers the remaining seconds, -1 for no expiry and -2 for a missing key.
func (h *CacheHandler) entryTTL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	d, err := h.svc.TTL(ctx, chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if d < 0 {
		writeJSON(w, http.StatusOK, int64(d))
		return
	}
	writeJSON(w, http.StatusOK, int64(d/time.Second))
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
