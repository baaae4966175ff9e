package orders

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/money"
)

type mockRepository struct {
	products map[int64]ProductRef
	orders   map[int64]*Order
	items    map[int64][]Item

	nextOrderID int64
	nextItemID  int64

	failProducts error
	failCreate   error
	failItem     error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products: make(map[int64]ProductRef),
		orders:   make(map[int64]*Order),
		items:    make(map[int64][]Item),
	}
}

func (m *mockRepository) addProduct(id int64, scanCode, name, price string) {
	amount, err := money.FromDecimalString(price)
	if err != nil {
		panic(err)
	}
	m.products[id] = ProductRef{ID: id, ScanCode: scanCode, Name: name, Price: amount}
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockRepository) GetWithItems(ctx context.Context, id int64) (*OrderWithItems, error) {
	order, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items := []ItemWithProduct{}
	for _, item := range m.items[id] {
		ref := m.products[item.ProductID]
		items = append(items, ItemWithProduct{
			Item: item,
			Product: catalog.Projection{
				ID:       ref.ID,
				Name:     ref.Name,
				ScanCode: ref.ScanCode,
			},
		})
	}
	return &OrderWithItems{Order: *order, Items: items}, nil
}

func (m *mockRepository) List(context.Context) ([]Order, error) {
	orders := []Order{}
	for _, order := range m.orders {
		orders = append(orders, *order)
	}
	for i := 0; i < len(orders); i++ {
		for j := i + 1; j < len(orders); j++ {
			if orders[j].CreatedAt.After(orders[i].CreatedAt) {
				orders[i], orders[j] = orders[j], orders[i]
			}
		}
	}
	return orders, nil
}

// WithTx snapshots state before fn and restores it on error so the mock
// mirrors the all-or-nothing behavior of the real transaction.
func (m *mockRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	ordersBackup := make(map[int64]*Order, len(m.orders))
	for id, order := range m.orders {
		copied := *order
		ordersBackup[id] = &copied
	}
	itemsBackup := make(map[int64][]Item, len(m.items))
	for id, items := range m.items {
		itemsBackup[id] = append([]Item(nil), items...)
	}

	if err := fn(ctx, &mockTx{repo: m}); err != nil {
		m.orders = ordersBackup
		m.items = itemsBackup
		return err
	}
	return nil
}

type mockTx struct {
	repo *mockRepository
}

func (t *mockTx) GetProductRefs(_ context.Context, ids []int64) (map[int64]ProductRef, error) {
	if t.repo.failProducts != nil {
		return nil, t.repo.failProducts
	}
	refs := make(map[int64]ProductRef)
	for _, id := range ids {
		if ref, ok := t.repo.products[id]; ok {
			refs[id] = ref
		}
	}
	return refs, nil
}

func (t *mockTx) CreateOrder(_ context.Context, order Order) (int64, error) {
	if t.repo.failCreate != nil {
		return 0, t.repo.failCreate
	}
	t.repo.nextOrderID++
	order.ID = t.repo.nextOrderID
	order.CreatedAt = time.Now().Add(time.Duration(order.ID) * time.Millisecond)
	order.UpdatedAt = order.CreatedAt
	t.repo.orders[order.ID] = &order
	return order.ID, nil
}

func (t *mockTx) InsertItem(_ context.Context, item Item) (int64, error) {
	if t.repo.failItem != nil {
		return 0, t.repo.failItem
	}
	t.repo.nextItemID++
	item.ID = t.repo.nextItemID
	t.repo.items[item.OrderID] = append(t.repo.items[item.OrderID], item)
	return item.ID, nil
}

func (t *mockTx) UpdateStatus(_ context.Context, id int64, status Status) error {
	order, ok := t.repo.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func newTestService(repo *mockRepository) *Service {
	return NewService(slog.New(slog.NewTextHandler(testWriter{}, nil)), repo)
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestCreateOrderComputesTotals(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "19.99")
	repo.addProduct(2, "QR-CHIPS", "Chips", "29.95")
	svc := newTestService(repo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items: []CartItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	assert.Equal(t, "69.93", order.Total.String())
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentCash, order.PaymentMethod)

	items := repo.items[order.ID]
	require.Len(t, items, 2)
	assert.Equal(t, "19.99", items[0].UnitPrice.String())
	assert.Equal(t, "39.98", items[0].Subtotal.String())
	assert.Equal(t, "29.95", items[1].Subtotal.String())
}

func TestCreateOrderDuplicateProductRows(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "10.00")
	svc := newTestService(repo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items: []CartItemRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 1, Quantity: 3},
		},
		PaymentMethod: PaymentCard,
	})
	require.NoError(t, err)

	items := repo.items[order.ID]
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, "40.00", order.Total.String())
}

func TestCreateOrderMissingProductsListsAllIDs(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "10.00")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		Items: []CartItemRequest{
			{ProductID: 999, Quantity: 1},
			{ProductID: 1, Quantity: 1},
			{ProductID: 7, Quantity: 2},
		},
		PaymentMethod: PaymentCash,
	})
	require.ErrorIs(t, err, ErrProductsNotFound)
	assert.Contains(t, err.Error(), "7, 999")

	assert.Empty(t, repo.orders, "nothing should be written")
	assert.Empty(t, repo.items)
}

func TestCreateOrderValidation(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "10.00")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		PaymentMethod: PaymentCash,
	})
	assert.ErrorIs(t, err, ErrEmptyItems)

	_, err = svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 0}},
		PaymentMethod: PaymentCash,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: -2}},
		PaymentMethod: PaymentCash,
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 1}},
		PaymentMethod: PaymentMethod("crypto"),
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	assert.Empty(t, repo.orders)
}

func TestCreateOrderRollsBackOnWriteFailure(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "19.99")
	repo.addProduct(2, "QR-CHIPS", "Chips", "9.95")
	svc := newTestService(repo)

	req := CreateOrderRequest{
		Items: []CartItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		PaymentMethod: PaymentCash,
	}

	// Line insert fails after the header was written: the whole
	// transaction must roll back, leaving no partial order behind.
	repo.failItem = errors.New("insert order item: connection reset")
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, repo.orders)
	assert.Empty(t, repo.items)

	repo.failItem = nil
	repo.failCreate = errors.New("insert order: connection reset")
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, repo.orders)
	assert.Empty(t, repo.items)

	repo.failCreate = nil
	repo.failProducts = errors.New("query products: connection reset")
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, repo.orders)

	// With the fault cleared the same request goes through.
	repo.failProducts = nil
	order, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "49.93", order.Total.String())
	assert.Len(t, repo.items[order.ID], 2)
}

func TestOrderItemsKeepPriceSnapshot(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "19.99")
	svc := newTestService(repo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 2}},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	// Reprice the product after the sale.
	repo.addProduct(1, "QR-COLA", "Cola", "25.00")

	detail, found, err := svc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "19.99", detail.Items[0].UnitPrice.String())
	assert.Equal(t, "39.98", detail.Items[0].Subtotal.String())
	assert.Equal(t, "39.98", detail.Total.String())
}

func TestGetByIDAbsentOrder(t *testing.T) {
	svc := newTestService(newMockRepository())

	detail, found, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, detail)
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "5.00")
	svc := newTestService(repo)

	first, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 1}},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 2}},
		PaymentMethod: PaymentCard,
	})
	require.NoError(t, err)

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestListOrdersEmptyStore(t *testing.T) {
	svc := newTestService(newMockRepository())

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	again, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orders, again)
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "5.00")
	svc := newTestService(repo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 1}},
		PaymentMethod: PaymentCash,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, Status("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), 9999, StatusCancelled)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "9999")
}

func TestUpdateStatusTouchesOnlyStatus(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "19.99")
	repo.addProduct(2, "QR-CHIPS", "Chips", "9.95")
	svc := newTestService(repo)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items: []CartItemRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		PaymentMethod: PaymentCard,
	})
	require.NoError(t, err)

	before, found, err := svc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, found)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	after, found, err := svc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, before.PaymentMethod, after.PaymentMethod)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, StatusCompleted, after.Status)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
}

type countingEnqueuer struct {
	ids []int64
}

func (c *countingEnqueuer) EnqueueReceipt(_ context.Context, orderID int64) error {
	c.ids = append(c.ids, orderID)
	return nil
}

func TestUpdateStatusEnqueuesReceipt(t *testing.T) {
	repo := newMockRepository()
	repo.addProduct(1, "QR-COLA", "Cola", "5.00")
	svc := newTestService(repo)
	enqueuer := &countingEnqueuer{}
	svc.SetReceipts(enqueuer)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		Items:         []CartItemRequest{{ProductID: 1, Quantity: 1}},
		PaymentMethod: PaymentCard,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Empty(t, enqueuer.ids, "cancellation must not produce a receipt")

	_, err = svc.UpdateStatus(context.Background(), order.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, []int64{order.ID}, enqueuer.ids)
}
