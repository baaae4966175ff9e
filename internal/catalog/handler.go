package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swiftpos/swiftpos/internal/platform/httpx"
	"github.com/swiftpos/swiftpos/internal/shared"
)

// Handler manages product HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/scan/{code}", h.getByScanCode)
	r.Get("/{id}", h.getByID)
	r.Patch("/{id}", h.update)
}

// create handles POST /api/products
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

// list handles GET /api/products
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, r, "list products", err)
		return
	}
	lo, hi := shared.ParsePageQuery(r.URL.Query()).Bounds(len(products))
	httpx.JSON(w, http.StatusOK, products[lo:hi])
}

// getByScanCode handles GET /api/products/scan/{code}
func (h *Handler) getByScanCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	product, found, err := h.service.GetByScanCode(r.Context(), code)
	if err != nil {
		h.respondError(w, r, "get product by scan code", err)
		return
	}
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no product with scan code "+code)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// getByID handles GET /api/products/{id}
func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return
	}

	product, found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get product", err)
		return
	}
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no product with id "+strconv.FormatInt(id, 10))
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// update handles PATCH /api/products/{id}
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return
	}

	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicateScanCode):
		httpx.Problem(w, http.StatusConflict, "Duplicate Scan Code", err.Error())
	case errors.Is(err, ErrInvalidPrice):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.RespondError(w, err)
	}
}
