package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abelheddy/simplepos/internal/catalog/products"
	"github.com/abelheddy/simplepos/internal/platform/httpx"
)

// Handler wires the HTTP endpoints for inventory. All three write routes
// are thin adapters over the same Reconcile call.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/update", h.upsert)
	r.Put("/product/{id}", h.upsertByProduct)
	r.Get("/product/{id}", h.getByProduct)
}

type createForm struct {
	ProductID int64  `json:"id_producto" validate:"required,gt=0"`
	Quantity  int64  `json:"cantidad"`
	Location  string `json:"ubicacion"`
}

type quantityForm struct {
	Quantity int64  `json:"cantidad"`
	Location string `json:"ubicacion"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.reconcile(w, r, ReconcileInput{
		ProductID: products.ID(form.ProductID),
		Quantity:  form.Quantity,
		Location:  form.Location,
	})
	if err != nil {
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.reconcile(w, r, ReconcileInput{
		ProductID: products.ID(form.ProductID),
		Quantity:  form.Quantity,
		Location:  form.Location,
	})
	if err != nil {
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) upsertByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}
	var form quantityForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := h.reconcile(w, r, ReconcileInput{
		ProductID: productID,
		Quantity:  form.Quantity,
		Location:  form.Location,
	})
	if err != nil {
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) getByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), productID)
	if err != nil {
		h.logger.Error("get inventory", slog.Int64("product_id", int64(productID)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

// reconcile funnels every write route into the service call and writes the
// error response on failure.
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request, input ReconcileInput) (Record, error) {
	rec, err := h.service.Reconcile(r.Context(), input)
	if err != nil {
		h.logger.Error("reconcile inventory",
			slog.Int64("product_id", int64(input.ProductID)),
			slog.Int64("cantidad", input.Quantity),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return Record{}, err
	}
	return rec, nil
}

func (h *Handler) parseProductID(w http.ResponseWriter, r *http.Request) (products.ID, bool) {
	raw, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || raw <= 0 {
		httpx.Error(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return products.ID(raw), true
}
