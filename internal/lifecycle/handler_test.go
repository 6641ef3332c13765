package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

type memoryProductRepo struct {
	products        map[products.ID]products.Product
	nextID          products.ID
	inventoryCounts map[products.ID]int64
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{
		products:        make(map[products.ID]products.Product),
		inventoryCounts: make(map[products.ID]int64),
	}
}

func (r *memoryProductRepo) List(ctx context.Context, includeInactive bool) ([]products.Product, error) {
	out := make([]products.Product, 0, len(r.products))
	for _, p := range r.products {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryProductRepo) Get(ctx context.Context, id products.ID) (products.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return products.Product{}, fmt.Errorf("products: id %d: %w", id, httpx.ErrNotFound)
}

func (r *memoryProductRepo) Create(ctx context.Context, p products.Product) (products.Product, error) {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return products.Product{}, fmt.Errorf("products: sku %q already exists: %w", p.SKU, httpx.ErrConflict)
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.Active = true
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryProductRepo) Update(ctx context.Context, id products.ID, p products.Product) (products.Product, error) {
	existing, ok := r.products[id]
	if !ok {
		return products.Product{}, fmt.Errorf("products: id %d: %w", id, httpx.ErrNotFound)
	}
	p.ID = id
	p.Active = existing.Active
	r.products[id] = p
	return p, nil
}

func (r *memoryProductRepo) Deactivate(ctx context.Context, id products.ID) error {
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("products: id %d: %w", id, httpx.ErrNotFound)
	}
	p.Active = false
	r.products[id] = p
	return nil
}

func (r *memoryProductRepo) CountInventory(ctx context.Context, id products.ID) (int64, error) {
	return r.inventoryCounts[id], nil
}

func (r *memoryProductRepo) Purge(ctx context.Context, id products.ID) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("products: id %d: %w", id, httpx.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// testAtomic reuses the product repo so transactional creates and saga
// creates observe the same product set.
type testAtomic struct {
	repo  *memoryProductRepo
	stock *fakeStock
}

func (a *testAtomic) CreateWithStock(ctx context.Context, p products.Product, quantity int64, location string) (products.Product, inventory.Record, error) {
	created, err := a.repo.Create(ctx, p)
	if err != nil {
		return products.Product{}, inventory.Record{}, err
	}
	rec, err := a.stock.Reconcile(ctx, inventory.ReconcileInput{
		ProductID: created.ID,
		Quantity:  quantity,
		Location:  location,
	})
	if err != nil {
		delete(a.repo.products, created.ID)
		return products.Product{}, inventory.Record{}, err
	}
	a.repo.inventoryCounts[created.ID] = 1
	return created, rec, nil
}

func newProductRouter(t *testing.T) (*chi.Mux, *memoryProductRepo) {
	t.Helper()
	repo := newMemoryProductRepo()
	svc := products.NewService(repo)
	stock := &fakeStock{}
	coord := NewCoordinator(svc, stock, &testAtomic{repo: repo, stock: stock})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, svc, coord)
	router := chi.NewRouter()
	router.Route("/api/products", handler.MountRoutes)
	return router, repo
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

const productBody = `{"nombre":"Keyboard","modelo":"K-100","sku":"KB-100","precio_compra":10,"precio_venta":15,"id_marca":1,"id_iva":1}`

func TestCreateProductEndpoint(t *testing.T) {
	router, _ := newProductRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/products/", productBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created products.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.True(t, created.Active)
}

func TestCreateProductValidation(t *testing.T) {
	router, _ := newProductRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/products/", `{"nombre":"Keyboard"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])
}

func TestCreateWithStockEndpoint(t *testing.T) {
	router, _ := newProductRouter(t)

	body := `{"nombre":"Keyboard","modelo":"K-100","sku":"KB-100","precio_compra":10,"precio_venta":15,"id_marca":1,"id_iva":1,"stock":25}`
	rr := doJSON(t, router, http.MethodPost, "/api/products/with-stock", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var out struct {
		Product products.Product `json:"producto"`
		Stock   inventory.Record `json:"inventario"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, out.Product.ID, out.Stock.ProductID)
	require.EqualValues(t, 25, out.Stock.Quantity)
	require.Equal(t, inventory.DefaultLocation, out.Stock.Location)
}

func TestUpdateProductEndpoint(t *testing.T) {
	router, _ := newProductRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/products/", productBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	updated := strings.Replace(productBody, `"nombre":"Keyboard"`, `"nombre":"Mechanical Keyboard"`, 1)
	rr = doJSON(t, router, http.MethodPut, "/api/products/1", updated)
	require.Equal(t, http.StatusOK, rr.Code)

	var p products.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	require.Equal(t, "Mechanical Keyboard", p.Name)
}

func TestDeactivateKeepsRow(t *testing.T) {
	router, repo := newProductRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/products/", productBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/products/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, repo.products, products.ID(1))
	require.False(t, repo.products[1].Active)
}

func TestPurgeBlockedByInventory(t *testing.T) {
	router, repo := newProductRouter(t)

	body := `{"nombre":"Keyboard","modelo":"K-100","sku":"KB-100","precio_compra":10,"precio_venta":15,"id_marca":1,"id_iva":1,"stock":5}`
	rr := doJSON(t, router, http.MethodPost, "/api/products/with-stock", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/products/1/purge", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, repo.products, products.ID(1))
}

func TestPurgeWithoutInventoryRemovesRow(t *testing.T) {
	router, repo := newProductRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/products/", productBody)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/api/products/1/purge", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, repo.products, products.ID(1))
}

func TestGetProductNotFound(t *testing.T) {
	router, _ := newProductRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/products/42", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListFiltersInactive(t *testing.T) {
	router, _ := newProductRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/products/", productBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, router, http.MethodDelete, "/api/products/1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/products/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var active []products.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &active))
	require.Empty(t, active)

	rr = doJSON(t, router, http.MethodGet, "/api/products/?include_inactive=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var all []products.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	require.Len(t, all, 1)
}
