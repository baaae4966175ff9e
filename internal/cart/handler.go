package cart

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/orders"
	"github.com/swiftpos/swiftpos/internal/platform/httpx"
)

// AddItemRequest adds a scanned product to the cart.
type AddItemRequest struct {
	ScanCode string `json:"scan_code" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityRequest replaces a line's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest submits the cart as an order.
type CheckoutRequest struct {
	PaymentMethod orders.PaymentMethod `json:"payment_method" validate:"required"`
}

// Handler manages cart HTTP endpoints. The cart is the register's session
// state; checkout hands the lines to the order service.
type Handler struct {
	logger   *slog.Logger
	store    *Store
	catalog  *catalog.Service
	orders   *orders.Service
	validate *validator.Validate
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, store *Store, catalogSvc *catalog.Service, orderSvc *orders.Service) *Handler {
	return &Handler{
		logger:   logger,
		store:    store,
		catalog:  catalogSvc,
		orders:   orderSvc,
		validate: validator.New(),
	}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/items", h.addItem)
	r.Put("/{id}/items/{productID}", h.setQuantity)
	r.Delete("/{id}/items/{productID}", h.removeItem)
	r.Post("/{id}/checkout", h.checkout)
}

// create handles POST /api/carts
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	c := New()
	if err := h.store.Save(r.Context(), c); err != nil {
		h.logger.Error("create cart failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// get handles GET /api/carts/{id}
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// addItem handles POST /api/carts/{id}/items
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	product, found, err := h.catalog.GetByScanCode(r.Context(), req.ScanCode)
	if err != nil {
		h.logger.Error("scan lookup failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no product with scan code "+req.ScanCode)
		return
	}

	if err := c.AddProduct(product, req.Quantity); err != nil {
		h.respondReducerError(w, err)
		return
	}
	h.saveAndRespond(w, r, c)
}

// setQuantity handles PUT /api/carts/{id}/items/{productID}
func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		h.respondReducerError(w, err)
		return
	}
	h.saveAndRespond(w, r, c)
}

// removeItem handles DELETE /api/carts/{id}/items/{productID}
func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	productID, ok := h.parseProductID(w, r)
	if !ok {
		return
	}

	if err := c.RemoveProduct(productID); err != nil {
		h.respondReducerError(w, err)
		return
	}
	h.saveAndRespond(w, r, c)
}

// checkout handles POST /api/carts/{id}/checkout. The cart passes through
// submitting and ends confirmed or failed; a failed cart keeps its items so
// the checkout can be retried.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCart(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := c.BeginCheckout(); err != nil {
		h.respondReducerError(w, err)
		return
	}

	items := make([]orders.CartItemRequest, len(c.Items))
	for i, line := range c.Items {
		items[i] = orders.CartItemRequest{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	order, err := h.orders.Create(r.Context(), orders.CreateOrderRequest{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		if failErr := c.FailCheckout(err.Error()); failErr == nil {
			if saveErr := h.store.Save(r.Context(), c); saveErr != nil {
				h.logger.Error("save failed cart", slog.Any("error", saveErr))
			}
		}
		h.respondOrderError(w, r, err)
		return
	}

	if err := c.ConfirmOrder(order.ID); err != nil {
		h.logger.Error("confirm cart failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.saveAndRespond(w, r, c)
}

func (h *Handler) loadCart(w http.ResponseWriter, r *http.Request) (*Cart, bool) {
	id := chi.URLParam(r, "id")
	c, found, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("load cart failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return nil, false
	}
	if !found {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no cart with id "+id)
		return nil, false
	}
	return c, true
}

func (h *Handler) parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) saveAndRespond(w http.ResponseWriter, r *http.Request, c *Cart) {
	if err := h.store.Save(r.Context(), c); err != nil {
		h.logger.Error("save cart failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) respondReducerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrLocked):
		httpx.Problem(w, http.StatusConflict, "Cart Locked", err.Error())
	case errors.Is(err, ErrLineNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrEmptyCart), errors.Is(err, ErrNotSubmitting):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func (h *Handler) respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orders.ErrProductsNotFound):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unknown Products", err.Error())
	case errors.Is(err, orders.ErrEmptyItems),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidPaymentMethod):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("checkout failed", slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.RespondError(w, err)
	}
}
