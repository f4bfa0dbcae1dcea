package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, code int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(s))
}

// writeError is the single place failures become HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	ae := apperr.From(err)
	resp := ae.Response()
	if resp.HTTPStatus >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	} else {
		log.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "code", ae.Code, "msg", ae.Msg)
	}
	writeJSON(w, resp.HTTPStatus, resp)
}

// decodeJSON reads the body into v and runs struct validation.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.NewBadRequest("invalid json: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			return apperr.NewBadRequest("%s", validationMessage(ves))
		}
		// non-struct targets (slices, maps) carry nothing to validate
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			return nil
		}
		return apperr.NewBadRequest("%v", err)
	}
	return nil
}

func validationMessage(ves validator.ValidationErrors) string {
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fieldMessage(fe)))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "is too long"
	default:
		return "invalid value"
	}
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NewBadRequest("invalid %s: %q", name, raw)
	}
	return n, nil
}
