// Package lifecycle owns the order status state machine and the two
// guarded stock mutations: cancellation (restore) and packing (deduct).
//
// The status machine is deliberately weak: admins may write any status
// directly. The only hard-enforced transition is cancellation, and its
// guard lives in the storage layer as a conditional update so it doubles
// as a concurrency fence.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/promo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotCancellable    = errors.New("order is not cancellable")
	ErrAlreadyPacked     = errors.New("order is already packed or not in processing")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrPromoNotFound     = errors.New("promo code not found")
)

// Authorization scopes an order mutation to its owner. The zero value is
// the admin override (no ownership predicate). Cancel-by-customer and
// cancel-by-guest-session share one code path through this value instead
// of duplicating the operation.
type Authorization struct {
	CustomerID string
	SessionID  string
}

func ByCustomer(id string) Authorization { return Authorization{CustomerID: id} }
func BySession(id string) Authorization  { return Authorization{SessionID: id} }
func ByAdmin() Authorization             { return Authorization{} }

// Store is the storage boundary. CancelOrder and PackOrder must be atomic
// conditional writes: precondition checked inside the same statement or
// transaction that mutates, never as a read-then-write pair here.
type Store interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	SetStatus(ctx context.Context, id string, status models.OrderStatus) error

	// CancelOrder restores product and packaging stock and flips the
	// status to cancelled in one transaction, guarded by
	// `status IN (pending, processing)` plus the ownership predicate.
	// Zero rows affected means ErrNotCancellable and no stock mutation.
	CancelOrder(ctx context.Context, id string, authz Authorization) error

	// PackOrder marks the order packed and deducts product and packaging
	// stock in one transaction, guarded by `packed = 0 AND status =
	// processing` and by `stock >= quantity` predicates.
	PackOrder(ctx context.Context, id string) error

	GetPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
	GetProducts(ctx context.Context, ids []uint) ([]models.Product, error)
	GetGovernorate(ctx context.Context, id uint) (*models.Governorate, error)
}

// Auditor records what happened for the back office; failures are logged,
// never surfaced to the customer.
type Auditor interface {
	Record(ctx context.Context, action, orderID string, data map[string]interface{}) error
}

// Publisher emits order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, eventType, orderID string, payload interface{}) error
}

type Service struct {
	store  Store
	audit  Auditor
	events Publisher
	logger *zap.Logger
}

func NewService(store Store, audit Auditor, events Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		audit:  audit,
		events: events,
		logger: logger,
	}
}

// SetStatus writes any valid status. No transition validation beyond
// parsing: the admin dropdown may skip states.
func (s *Service) SetStatus(ctx context.Context, orderID, status string) error {
	st, err := models.ParseStatus(status)
	if err != nil {
		return err
	}
	if err := s.store.SetStatus(ctx, orderID, st); err != nil {
		return err
	}
	s.record(ctx, "status_change", orderID, map[string]interface{}{"status": string(st)})
	s.publish(ctx, "order.status_changed", orderID, map[string]string{"status": string(st)})
	return nil
}

// Cancel restores stock and cancels the order if it is still pending or
// processing and the caller owns it. A second cancel, or a cancel after
// shipping, returns ErrNotCancellable with no stock mutation on every
// entry point, authenticated, guest and admin alike.
func (s *Service) Cancel(ctx context.Context, orderID string, authz Authorization) error {
	if err := s.store.CancelOrder(ctx, orderID, authz); err != nil {
		if errors.Is(err, ErrNotCancellable) {
			s.logger.Info("cancel rejected",
				zap.String("order_id", orderID),
				zap.Bool("guest", authz.SessionID != ""))
		}
		return err
	}

	s.record(ctx, "order_cancelled", orderID, map[string]interface{}{
		"customer_id": authz.CustomerID,
		"session_id":  authz.SessionID,
	})
	s.publish(ctx, "order.cancelled", orderID, nil)
	return nil
}

// PackResult is the per-order outcome of a packing batch.
type PackResult struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PackOrders processes each order independently and reports per-order
// results; successes are not rolled back when a later order fails.
func (s *Service) PackOrders(ctx context.Context, orderIDs []string) []PackResult {
	results := make([]PackResult, 0, len(orderIDs))
	for _, id := range orderIDs {
		if err := s.store.PackOrder(ctx, id); err != nil {
			results = append(results, PackResult{OrderID: id, Success: false, Error: err.Error()})
			continue
		}
		s.record(ctx, "order_packed", id, nil)
		s.publish(ctx, "order.packed", id, nil)
		results = append(results, PackResult{OrderID: id, Success: true})
	}
	return results
}

// PlaceOrderInput is a checkout request after cart resolution.
type PlaceOrderInput struct {
	CustomerID    string
	SessionID     string
	GovernorateID uint
	PromoCode     string
	Items         []PlaceOrderItem
}

type PlaceOrderItem struct {
	ProductID uint
	VariantID *uint
	Quantity  int
}

// PlaceOrder prices the cart, applies the promo code and persists the
// order with the discount computed now; the derived display fallback
// exists only for rows that predate this rule.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.store.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := &models.Order{
		ID:     uuid.NewString(),
		Status: models.StatusPending,
	}
	if in.CustomerID != "" {
		order.CustomerID = &in.CustomerID
	}
	if in.SessionID != "" {
		order.SessionID = &in.SessionID
	}

	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d not found", it.ProductID)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("product %d: quantity must be positive", it.ProductID)
		}
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: p.ID,
			VariantID: it.VariantID,
			Slug:      p.Slug,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
	}
	order.Subtotal = order.ItemsSubtotal()

	if in.GovernorateID != 0 {
		gov, err := s.store.GetGovernorate(ctx, in.GovernorateID)
		if err != nil {
			return nil, fmt.Errorf("load governorate: %w", err)
		}
		order.GovernorateID = &in.GovernorateID
		order.ShippingTotal = gov.Fee
	}

	if in.PromoCode != "" {
		code, err := s.store.GetPromoCode(ctx, in.PromoCode)
		if err != nil {
			return nil, ErrPromoNotFound
		}
		order.DiscountTotal = promo.Evaluate(*code, order.Items)
		order.AppliedPromoCode = &code.Code
		if !code.IsBOGO {
			pct := code.PercentageOff
			order.PromoPercentage = &pct
		}
	}

	order.GrandTotal = order.Subtotal.
		Sub(order.DiscountTotal).
		Add(order.ShippingTotal).
		Add(order.TaxTotal)
	if order.GrandTotal.LessThan(decimal.Zero) {
		order.GrandTotal = decimal.Zero
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.record(ctx, "order_created", order.ID, map[string]interface{}{
		"grand_total": order.GrandTotal.String(),
		"promo_code":  in.PromoCode,
	})
	s.publish(ctx, "order.created", order.ID, map[string]string{
		"grand_total": order.GrandTotal.String(),
	})
	return order, nil
}

// Track returns the order plus its timeline classification for the
// customer-facing tracking screen. Failure-class statuses (cancelled,
// returned, refunded, failed, declined) collapse into one error rendering
// instead of progress steps.
type TrackingView struct {
	Order        *models.Order `json:"order"`
	StepIndex    int           `json:"step_index"`
	Failed       bool          `json:"failed"`
	EffectiveTot string        `json:"effective_total"`
}

func (s *Service) Track(ctx context.Context, orderID string) (*TrackingView, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &TrackingView{
		Order:        order,
		StepIndex:    order.Status.HappyPathIndex(),
		Failed:       order.Status.IsFailureClass(),
		EffectiveTot: promo.EffectiveTotal(order).StringFixed(2),
	}, nil
}

func (s *Service) record(_ context.Context, action, orderID string, data map[string]interface{}) {
	if s.audit == nil {
		return
	}
	// Fire and forget; audit writes must not block the request path.
	go func() {
		if err := s.audit.Record(context.Background(), action, orderID, data); err != nil {
			s.logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
		}
	}()
}

func (s *Service) publish(ctx context.Context, eventType, orderID string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, orderID, payload); err != nil {
		s.logger.Warn("event publish failed", zap.String("event", eventType), zap.Error(err))
	}
}
