package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/products"
)

type ProductService interface {
	Create(ctx context.Context, d products.Doc) (string, error)
	Get(ctx context.Context, id string) (products.Doc, error)
	SearchByName(ctx context.Context, name string) ([]products.Doc, error)
	Update(ctx context.Context, id, name string, price float64) (string, error)
	Delete(ctx context.Context, id string) error
}

type ProductReq struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

type ProductUpdateReq struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

type ProductsHandler struct {
	svc     ProductService
	log     *slog.Logger
	timeout time.Duration
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/search", h.search)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := h.svc.Create(ctx, products.Doc{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeText(w, http.StatusOK, id)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	d, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ProductsHandler) search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, r, h.log, apperr.NewBadRequest("name is required"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ds, err := h.svc.SearchByName(ctx, name)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if ds == nil {
		ds = []products.Doc{}
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := h.svc.Update(ctx, chi.URLParam(r, "id"), req.Name, req.Price)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeText(w, http.StatusOK, id)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
