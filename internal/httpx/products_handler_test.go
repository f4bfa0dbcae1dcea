package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storage-samples/internal/apperr"
	"github.com/ariefcatur/go-storage-samples/internal/logging"
	"github.com/ariefcatur/go-storage-samples/internal/products"
)

type MockProducts struct{ mock.Mock }

func (m *MockProducts) Create(ctx context.Context, d products.Doc) (string, error) {
	args := m.Called(ctx, d)
	return args.String(0), args.Error(1)
}

func (m *MockProducts) Get(ctx context.Context, id string) (products.Doc, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(products.Doc), args.Error(1)
}

func (m *MockProducts) SearchByName(ctx context.Context, name string) ([]products.Doc, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]products.Doc), args.Error(1)
}

func (m *MockProducts) Update(ctx context.Context, id, name string, price float64) (string, error) {
	args := m.Called(ctx, id, name, price)
	return args.String(0), args.Error(1)
}

func (m *MockProducts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newProductsRouter() (http.Handler, *MockProducts) {
	svc := new(MockProducts)
	return NewRouter(Deps{Products: svc, Log: logging.Discard()}), svc
}

func TestProducts_CreateReturnsPlainID(t *testing.T) {
	h, svc := newProductsRouter()
	svc.On("Create", mock.Anything, products.Doc{Name: "Lamp", Category: "home", Price: 12.5}).Return("p-1", nil)

	rr := do(t, h, http.MethodPost, "/products", `{"name":"Lamp","category":"home","price":12.5}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "p-1", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	svc.AssertExpectations(t)
}

func TestProducts_CreateRejectsNegativePrice(t *testing.T) {
	h, svc := newProductsRouter()

	rr := do(t, h, http.MethodPost, "/products", `{"name":"Lamp","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProducts_GetMissing(t *testing.T) {
	h, svc := newProductsRouter()
	svc.On("Get", mock.Anything, "nope").Return(products.Doc{}, apperr.NewNotFound("product not found. id=%s", "nope"))

	rr := do(t, h, http.MethodGet, "/products/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	var body apperr.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "404", body.ErrorCode)
	assert.Equal(t, "product not found. id=nope", body.Message)
}

func TestProducts_Search(t *testing.T) {
	h, svc := newProductsRouter()
	svc.On("SearchByName", mock.Anything, "lam").Return([]products.Doc{{ID: "p-1", Name: "Lamp"}}, nil)

	rr := do(t, h, http.MethodGet, "/products/search?name=lam", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got []products.Doc
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p-1", got[0].ID)

	rr = do(t, h, http.MethodGet, "/products/search", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProducts_UpdateAndDelete(t *testing.T) {
	h, svc := newProductsRouter()
	svc.On("Update", mock.Anything, "p-1", "Desk Lamp", 20.0).Return("p-1", nil)
	svc.On("Delete", mock.Anything, "p-1").Return(nil)

	rr := do(t, h, http.MethodPut, "/products/p-1", `{"name":"Desk Lamp","price":20}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "p-1", rr.Body.String())

	rr = do(t, h, http.MethodDelete, "/products/p-1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	svc.AssertExpectations(t)
}
