package inventory

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo))
	router := chi.NewRouter()
	router.Route("/api/inventory", handler.MountRoutes)
	return router, repo
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeRecord(t *testing.T, rr *httptest.ResponseRecorder) Record {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	return rec
}

func TestCreateReturnsRecord(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/inventory/", `{"id_producto":1,"cantidad":10}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rec := decodeRecord(t, rr)
	require.EqualValues(t, 1, rec.ProductID)
	require.EqualValues(t, 10, rec.Quantity)
	require.Equal(t, DefaultLocation, rec.Location)
}

func TestWriteRoutesShareOneRow(t *testing.T) {
	router, repo := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/inventory/", `{"id_producto":5,"cantidad":1}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeRecord(t, rr)

	rr = doJSON(t, router, http.MethodPost, "/api/inventory/update", `{"id_producto":5,"cantidad":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, created.ID, decodeRecord(t, rr).ID)

	rr = doJSON(t, router, http.MethodPut, "/api/inventory/product/5", `{"cantidad":3}`)
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decodeRecord(t, rr)
	require.Equal(t, created.ID, updated.ID)
	require.EqualValues(t, 3, updated.Quantity)

	require.Len(t, repo.rows, 1)
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	router, repo := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/inventory/", `{"id_producto":1,"cantidad":-4}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
	require.Zero(t, repo.upserts)
}

func TestCreateRejectsMissingProduct(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/inventory/", `{"cantidad":4}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetByProduct(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/inventory/", `{"id_producto":9,"cantidad":7,"ubicacion":"shelf A"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/product/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeRecord(t, rec)
	require.EqualValues(t, 7, got.Quantity)
	require.Equal(t, "shelf A", got.Location)
}

func TestGetByProductNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/product/404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutRejectsBadProductID(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPut, "/api/inventory/product/zero", `{"cantidad":1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
