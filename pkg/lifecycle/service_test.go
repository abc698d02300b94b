package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore reproduces the storage contract in memory, including the
// conditional-write guards on cancel and pack.
type fakeStore struct {
	mu      sync.Mutex
	orders  map[string]*models.Order
	stock   map[uint]int
	promos  map[string]*models.PromoCode
	catalog map[uint]models.Product
	govs    map[uint]*models.Governorate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  make(map[string]*models.Order),
		stock:   make(map[uint]int),
		promos:  make(map[string]*models.PromoCode),
		catalog: make(map[uint]models.Product),
		govs:    make(map[uint]*models.Governorate),
	}
}

func (f *fakeStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, id string, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeStore) CancelOrder(_ context.Context, id string, authz Authorization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != models.StatusPending && o.Status != models.StatusProcessing {
		return ErrNotCancellable
	}
	if authz.CustomerID != "" && (o.CustomerID == nil || *o.CustomerID != authz.CustomerID) {
		return ErrNotCancellable
	}
	if authz.SessionID != "" && (o.SessionID == nil || *o.SessionID != authz.SessionID) {
		return ErrNotCancellable
	}
	if o.Packed {
		for _, it := range o.Items {
			f.stock[it.ProductID] += it.Quantity
		}
	}
	o.Status = models.StatusCancelled
	o.Packed = false
	return nil
}

func (f *fakeStore) PackOrder(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Packed || o.Status != models.StatusProcessing {
		return ErrAlreadyPacked
	}
	for _, it := range o.Items {
		if f.stock[it.ProductID] < it.Quantity {
			return ErrInsufficientStock
		}
	}
	for _, it := range o.Items {
		f.stock[it.ProductID] -= it.Quantity
	}
	o.Packed = true
	return nil
}

func (f *fakeStore) GetPromoCode(_ context.Context, code string) (*models.PromoCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.promos[code]
	if !ok {
		return nil, ErrPromoNotFound
	}
	return p, nil
}

func (f *fakeStore) GetProducts(_ context.Context, ids []uint) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.catalog[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetGovernorate(_ context.Context, id uint) (*models.Governorate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.govs[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return g, nil
}

func (f *fakeStore) stockOf(productID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[productID]
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, nil, nil, zap.NewNop())
}

func seedOrder(store *fakeStore, id string, status models.OrderStatus, packed bool) *models.Order {
	o := &models.Order{
		ID:     id,
		Status: status,
		Packed: packed,
		Items: []models.OrderItem{
			{OrderID: id, ProductID: 1, Slug: "lavender-soap", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00")},
		},
	}
	store.orders[id] = o
	return o
}

func TestCancelPendingOrder(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "ord-1", models.StatusPending, false)
	svc := newTestService(store)

	err := svc.Cancel(context.Background(), "ord-1", ByAdmin())
	require.NoError(t, err)

	o, _ := store.GetOrder(context.Background(), "ord-1")
	assert.Equal(t, models.StatusCancelled, o.Status)
}

func TestCancelRestoresStockOnlyWhenPacked(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 10

	seedOrder(store, "unpacked", models.StatusPending, false)
	seedOrder(store, "packed", models.StatusProcessing, true)
	svc := newTestService(store)

	require.NoError(t, svc.Cancel(context.Background(), "unpacked", ByAdmin()))
	assert.Equal(t, 10, store.stockOf(1), "no deduction happened yet, nothing to restore")

	require.NoError(t, svc.Cancel(context.Background(), "packed", ByAdmin()))
	assert.Equal(t, 12, store.stockOf(1), "packed order returns its units")
}

func TestCancelIsIdempotentAtMostOnce(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 10
	seedOrder(store, "ord-1", models.StatusProcessing, true)
	svc := newTestService(store)

	require.NoError(t, svc.Cancel(context.Background(), "ord-1", ByAdmin()))
	err := svc.Cancel(context.Background(), "ord-1", ByAdmin())
	assert.ErrorIs(t, err, ErrNotCancellable)

	// Stock restored exactly once.
	assert.Equal(t, 12, store.stockOf(1))
}

func TestConcurrentCancelRestoresOnce(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 0
	seedOrder(store, "ord-1", models.StatusProcessing, true)
	svc := newTestService(store)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Cancel(context.Background(), "ord-1", ByAdmin())
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrNotCancellable)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, store.stockOf(1))
}

func TestCancelRejectedAfterShipping(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "ord-1", models.StatusShipped, true)
	svc := newTestService(store)

	err := svc.Cancel(context.Background(), "ord-1", ByAdmin())
	assert.ErrorIs(t, err, ErrNotCancellable)

	o, _ := store.GetOrder(context.Background(), "ord-1")
	assert.Equal(t, models.StatusShipped, o.Status)
	assert.True(t, o.Packed)
}

func TestCancelOwnershipPredicate(t *testing.T) {
	store := newFakeStore()
	owner := "cust-1"
	o := seedOrder(store, "ord-1", models.StatusPending, false)
	o.CustomerID = &owner
	svc := newTestService(store)

	err := svc.Cancel(context.Background(), "ord-1", ByCustomer("cust-2"))
	assert.ErrorIs(t, err, ErrNotCancellable)

	require.NoError(t, svc.Cancel(context.Background(), "ord-1", ByCustomer("cust-1")))
}

func TestCancelGuestSessionPredicate(t *testing.T) {
	store := newFakeStore()
	sid := "sess-abc"
	o := seedOrder(store, "ord-1", models.StatusPending, false)
	o.SessionID = &sid
	svc := newTestService(store)

	err := svc.Cancel(context.Background(), "ord-1", BySession("sess-other"))
	assert.ErrorIs(t, err, ErrNotCancellable)

	require.NoError(t, svc.Cancel(context.Background(), "ord-1", BySession("sess-abc")))
}

func TestCancelUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeStore())
	err := svc.Cancel(context.Background(), "nope", ByAdmin())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPackOrdersPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 4
	seedOrder(store, "ok-1", models.StatusProcessing, false)
	seedOrder(store, "done", models.StatusProcessing, true)
	seedOrder(store, "ok-2", models.StatusProcessing, false)
	svc := newTestService(store)

	results := svc.PackOrders(context.Background(), []string{"ok-1", "done", "missing", "ok-2"})
	require.Len(t, results, 4)

	assert.True(t, results[0].Success)
	assert.Empty(t, results[0].Error)

	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	assert.False(t, results[2].Success)

	// A failure mid-batch does not roll back or block later orders.
	assert.True(t, results[3].Success)
	assert.Equal(t, 0, store.stockOf(1))
}

func TestPackOrderIdempotenceFence(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 10
	seedOrder(store, "ord-1", models.StatusProcessing, false)
	svc := newTestService(store)

	first := svc.PackOrders(context.Background(), []string{"ord-1"})
	require.True(t, first[0].Success)
	assert.Equal(t, 8, store.stockOf(1))

	second := svc.PackOrders(context.Background(), []string{"ord-1"})
	assert.False(t, second[0].Success)
	assert.Equal(t, 8, store.stockOf(1), "stock deducted exactly once")
}

func TestPackOrderInsufficientStock(t *testing.T) {
	store := newFakeStore()
	store.stock[1] = 1
	seedOrder(store, "ord-1", models.StatusProcessing, false)
	svc := newTestService(store)

	results := svc.PackOrders(context.Background(), []string{"ord-1"})
	assert.False(t, results[0].Success)
	assert.Equal(t, 1, store.stockOf(1))
}

func seedCatalog(store *fakeStore) {
	store.catalog[1] = models.Product{
		ID:    1,
		Slug:  "lavender-soap",
		Price: decimal.RequireFromString("50.00"),
	}
	store.catalog[2] = models.Product{
		ID:    2,
		Slug:  "shea-butter",
		Price: decimal.RequireFromString("100.00"),
	}
	store.govs[5] = &models.Governorate{ID: 5, Fee: decimal.RequireFromString("45.00")}
}

func TestPlaceOrderPricesCart(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	svc := newTestService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		CustomerID:    "cust-1",
		GovernorateID: 5,
		Items: []PlaceOrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, order.ShippingTotal.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("245.00")))
	assert.Equal(t, models.StatusPending, order.Status)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, "cust-1", *order.CustomerID)
}

func TestPlaceOrderPersistsPromoDiscount(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	store.promos["SAVE10"] = &models.PromoCode{
		Code:          "SAVE10",
		PercentageOff: decimal.RequireFromString("10"),
		AllCart:       true,
	}
	svc := newTestService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		SessionID: "sess-1",
		PromoCode: "SAVE10",
		Items:     []PlaceOrderItem{{ProductID: 2, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, order.DiscountTotal.Equal(decimal.RequireFromString("20.00")))
	require.NotNil(t, order.AppliedPromoCode)
	assert.Equal(t, "SAVE10", *order.AppliedPromoCode)
	require.NotNil(t, order.PromoPercentage)
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("180.00")))
}

func TestPlaceOrderBogoPromoKeepsPercentageNil(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	store.promos["B1G1"] = &models.PromoCode{
		Code:         "B1G1",
		IsBOGO:       true,
		BogoBuyCount: 1,
		BogoGetCount: 1,
		AllCart:      true,
	}
	svc := newTestService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		SessionID: "sess-1",
		PromoCode: "B1G1",
		Items:     []PlaceOrderItem{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.True(t, order.DiscountTotal.Equal(decimal.RequireFromString("50.00")))
	assert.Nil(t, order.PromoPercentage, "percentage snapshot only applies to percentage codes")
}

func TestPlaceOrderGrandTotalNeverNegative(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	store.promos["ALL"] = &models.PromoCode{
		Code:          "ALL",
		PercentageOff: decimal.RequireFromString("100"),
		AllCart:       true,
	}
	svc := newTestService(store)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		SessionID: "sess-1",
		PromoCode: "ALL",
		Items:     []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.False(t, order.GrandTotal.IsNegative())
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{SessionID: "s"})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceOrderRejectsUnknownPromo(t *testing.T) {
	store := newFakeStore()
	seedCatalog(store)
	svc := newTestService(store)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		SessionID: "s",
		PromoCode: "NOPE",
		Items:     []PlaceOrderItem{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrPromoNotFound)
}

func TestSetStatusValidatesInput(t *testing.T) {
	store := newFakeStore()
	seedOrder(store, "ord-1", models.StatusPending, false)
	svc := newTestService(store)

	require.NoError(t, svc.SetStatus(context.Background(), "ord-1", "Shipped"))
	o, _ := store.GetOrder(context.Background(), "ord-1")
	assert.Equal(t, models.StatusShipped, o.Status)

	err := svc.SetStatus(context.Background(), "ord-1", "teleported")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}

func TestTrackClassifiesStatuses(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	seedOrder(store, "happy", models.StatusOutForDelivery, true)
	view, err := svc.Track(context.Background(), "happy")
	require.NoError(t, err)
	assert.False(t, view.Failed)
	assert.Equal(t, 3, view.StepIndex)

	seedOrder(store, "dead", models.StatusCancelled, false)
	view, err = svc.Track(context.Background(), "dead")
	require.NoError(t, err)
	assert.True(t, view.Failed)
	assert.Equal(t, -1, view.StepIndex)
}

func TestTrackUsesEffectiveTotalFallback(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	code := "SAVE10"
	pct := decimal.RequireFromString("10")
	store.orders["legacy"] = &models.Order{
		ID:               "legacy",
		Status:           models.StatusDelivered,
		Subtotal:         decimal.RequireFromString("200.00"),
		ShippingTotal:    decimal.RequireFromString("40.00"),
		AppliedPromoCode: &code,
		PromoPercentage:  &pct,
	}

	view, err := svc.Track(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "220.00", view.EffectiveTot)
}
