package lifecycle

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abelheddy/simplepos/internal/catalog/brands"
	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/catalog/taxes"
	"github.com/abelheddy/simplepos/internal/inventory"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Handler wires the product HTTP surface. Create and update go through
// the coordinator; reads and retirement go straight to the product service.
type Handler struct {
	logger      *slog.Logger
	products    *products.Service
	coordinator *Coordinator
	validate    *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, productSvc *products.Service, coordinator *Coordinator) *Handler {
	return &Handler{logger: logger, products: productSvc, coordinator: coordinator, validate: validator.New()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/with-stock", h.createWithStock)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
	r.Delete("/{id}/purge", h.purge)
}

type productForm struct {
	Name          string  `json:"nombre" validate:"required"`
	Description   string  `json:"descripcion"`
	Model         string  `json:"modelo" validate:"required"`
	PurchasePrice float64 `json:"precio_compra" validate:"gte=0"`
	SalePrice     float64 `json:"precio_venta" validate:"gte=0"`
	SKU           string  `json:"sku" validate:"required"`
	Barcode       string  `json:"codigo_barras"`
	BrandID       int64   `json:"id_marca" validate:"required,gt=0"`
	TaxID         int64   `json:"id_iva" validate:"required,gt=0"`
	// Stock is only honoured by the with-stock route; the plain create
	// leaves inventory to the follow-up reconcile call.
	Stock int64 `json:"stock" validate:"gte=0"`
}

func (f productForm) product() products.Product {
	return products.Product{
		Name:          f.Name,
		Description:   f.Description,
		Model:         f.Model,
		PurchasePrice: f.PurchasePrice,
		SalePrice:     f.SalePrice,
		SKU:           f.SKU,
		Barcode:       f.Barcode,
		BrandID:       brands.ID(f.BrandID),
		TaxID:         taxes.ID(f.TaxID),
	}
}

type productWithStock struct {
	Product products.Product `json:"producto"`
	Stock   inventory.Record `json:"inventario"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	out, err := h.products.List(r.Context(), includeInactive)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if out == nil {
		out = []products.Product{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get product", slog.Int64("id", int64(id)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	created, err := h.coordinator.CreateProduct(r.Context(), form.product())
	if err != nil {
		h.logger.Error("create product", slog.String("sku", form.SKU), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) createWithStock(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	created, rec, err := h.coordinator.CreateWithStock(r.Context(), form.product(), form.Stock, "")
	if err != nil {
		h.logger.Error("create product with stock", slog.String("sku", form.SKU), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, productWithStock{Product: created, Stock: rec})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	updated, err := h.coordinator.UpdateProduct(r.Context(), id, form.product())
	if err != nil {
		h.logger.Error("update product", slog.Int64("id", int64(id)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.products.Deactivate(r.Context(), id); err != nil {
		h.logger.Error("deactivate product", slog.Int64("id", int64(id)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "product deactivated"})
}

func (h *Handler) purge(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.products.Purge(r.Context(), id); err != nil {
		h.logger.Error("purge product", slog.Int64("id", int64(id)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "product purged"})
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (productForm, bool) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return form, false
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return form, false
	}
	return form, true
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (products.ID, bool) {
	raw, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || raw <= 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return products.ID(raw), true
}
