package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/logging"
)

func TestHealthz(t *testing.T) {
	h := NewRouter(Deps{Log: logging.Discard()})

	rr := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(HeaderAPIID))
}

func TestAPIID_Echoed(t *testing.T) {
	h := NewRouter(Deps{Log: logging.Discard()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderAPIID, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(HeaderAPIID))
}

func TestOpenAPIServed(t *testing.T) {
	h := NewRouter(Deps{Log: logging.Discard()})

	rr := do(t, h, http.MethodGet, "/openapi.yaml", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("openapi:")))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	h := NewRouter(Deps{Log: logging.NewWithWriter(&buf, "info", "json")})

	do(t, h, http.MethodGet, "/healthz", "")
	assert.Contains(t, buf.String(), `"msg":"http_request"`)
	assert.Contains(t, buf.String(), `"path":"/healthz"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestUnmountedSliceIs404(t *testing.T) {
	h := NewRouter(Deps{Log: logging.Discard()})

	rr := do(t, h, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"errorCode":"404"`)
}

func decodeErrorBody(t *testing.T, b []byte) apperr.Response {
	t.Helper()
	var resp apperr.Response
	require.NoError(t, json.Unmarshal(b, &resp))
	return resp
}

func TestUnknownRoute_ErrorBody(t *testing.T) {
	h := NewRouter(Deps{Log: logging.Discard()})

	rr := do(t, h, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	resp := decodeErrorBody(t, rr.Body.Bytes())
	assert.Equal(t, 404, resp.HTTPStatus)
	assert.Equal(t, "404", resp.ErrorCode)
	assert.Equal(t, "resource not found", resp.Message)
	assert.NotZero(t, resp.Timestamp)
}

func TestWrongMethod_ErrorBody(t *testing.T) {
	h := NewRouter(Deps{Log: logging.Discard()})

	rr := do(t, h, http.MethodPatch, "/healthz", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	resp := decodeErrorBody(t, rr.Body.Bytes())
	assert.Equal(t, "405", resp.ErrorCode)
	assert.Equal(t, "method not allowed", resp.Message)
}

func TestPanic_ErrorBody(t *testing.T) {
	var buf bytes.Buffer
	mux := NewRouter(Deps{Log: logging.NewWithWriter(&buf, "info", "json")})
	mux.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rr := do(t, mux, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeErrorBody(t, rr.Body.Bytes())
	assert.Equal(t, "500", resp.ErrorCode)
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, rr.Body.String(), "kaboom")
	assert.Contains(t, buf.String(), `"msg":"panic recovered"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
