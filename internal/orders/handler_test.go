package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *mockRepository) chi.Router {
	svc := newTestService(repo)
	handler := NewHandler(svc.logger, svc)

	r := chi.NewRouter()
	r.Route("/api/orders", handler.MountRoutes)
	return r
}

func TestHandlerCreateOrder(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "19.99")
	router := newTestRouter(repo)

	body := `{"items":[{"product_id":1,"quantity":2}],"payment_method":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var order Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "39.98", order.Total.String())
	assert.Equal(t, StatusPending, order.Status)
}

func TestHandlerCreateOrderUnknownProducts(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	body := `{"items":[{"product_id":7,"quantity":1},{"product_id":999,"quantity":1}],"payment_method":"card"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "7, 999")
}

func TestHandlerCreateOrderBadRequests(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "5.00")
	router := newTestRouter(repo)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"items":`},
		{"empty items", `{"items":[],"payment_method":"cash"}`},
		{"zero quantity", `{"items":[{"product_id":1,"quantity":0}],"payment_method":"cash"}`},
		{"bad payment method", `{"items":[{"product_id":1,"quantity":1}],"payment_method":"crypto"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlerGetOrder(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "19.99")
	svc := newTestService(repo)
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 2}},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	router := newTestRouter(repo)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var detail OrderWithItems
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, order.ID, detail.ID)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Cola", detail.Items[0].Product.Name)
	assert.Equal(t, "QR-COLA", detail.Items[0].Product.ScanCode)
}

func TestHandlerGetOrderNotFound(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "5.00")
	svc := newTestService(repo)
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 1}},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/1/status",
		bytes.NewBufferString(`{"status":"completed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, order.ID, updated.ID)
	assert.Equal(t, StatusCompleted, updated.Status)

	req = httptest.NewRequest(http.MethodPatch, "/api/orders/1/status",
		bytes.NewBufferString(`{"status":"shipped"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/api/orders/999/status",
		bytes.NewBufferString(`{"status":"cancelled"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
