package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ListOrders returns one admin page, optionally filtered by status.
func (s *Store) ListOrders(ctx context.Context, status string, page, pageSize int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		st, err := models.ParseStatus(status)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("status = ?", st)
	}
	query.Count(&total)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if err := query.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(pageSize).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// SetStatus writes the status directly. The admin dropdown may skip
// states; only cancellation goes through the guarded path.
func (s *Store) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrOrderNotFound
	}
	return nil
}

// cancelScope selects the order row FOR UPDATE. The restoration decision
// below depends on the packed flag read through this query, so the row
// must stay locked until the transaction commits; a concurrent PackOrder
// blocks on this lock instead of flipping the flag underneath us.
func cancelScope(tx *gorm.DB, id string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
}

// CancelOrder is the guarded cancellation: stock restoration and the
// status flip commit or roll back together. The conditional status update
// is the concurrency fence: the second of two racing cancels sees zero
// affected rows and leaves stock untouched.
func (s *Store) CancelOrder(ctx context.Context, id string, authz lifecycle.Authorization) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := cancelScope(tx, id).Preload("Items").First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return lifecycle.ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		// Restore only what packing deducted. An unpacked order never
		// consumed stock, so its cancellation touches no inventory.
		if order.Packed {
			for _, item := range order.Items {
				res := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity))
				if res.Error != nil {
					return fmt.Errorf("failed to restore stock for product %d: %w", item.ProductID, res.Error)
				}
			}
			if err := restorePackaging(tx); err != nil {
				return err
			}
		}

		// Status CAS, doubling as ownership check and race fence.
		q := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", id, []models.OrderStatus{models.StatusPending, models.StatusProcessing})
		if authz.CustomerID != "" {
			q = q.Where("customer_id = ?", authz.CustomerID)
		}
		if authz.SessionID != "" {
			q = q.Where("session_id = ?", authz.SessionID)
		}
		res := q.Updates(map[string]interface{}{
			"status":     models.StatusCancelled,
			"packed":     false,
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return fmt.Errorf("failed to cancel order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Already handled, already shipped, or not owned by the
			// caller. Rolling back undoes the restoration above.
			return lifecycle.ErrNotCancellable
		}
		return nil
	})
}

// PackOrder deducts stock for one processing order and marks it packed.
// The packed-flag CAS makes the operation idempotent per order; the stock
// predicates keep inventory non-negative.
func (s *Store) PackOrder(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND packed = ? AND status = ?", id, false, models.StatusProcessing).
			Updates(map[string]interface{}{
				"packed":     true,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark order packed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return lifecycle.ErrAlreadyPacked
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}

		for _, item := range items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to deduct stock for product %d: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return lifecycle.ErrInsufficientStock
			}
		}

		return deductPackaging(tx)
	})
}

// restorePackaging reverses deductPackaging for one order.
func restorePackaging(tx *gorm.DB) error {
	var bom []models.PackagingMaterial
	if err := tx.Find(&bom).Error; err != nil {
		return fmt.Errorf("failed to load packaging bill of materials: %w", err)
	}
	for _, row := range bom {
		res := tx.Model(&models.Material{}).
			Where("id = ?", row.MaterialID).
			Update("stock_grams", gorm.Expr("stock_grams + ?", row.GramsPerOrder))
		if res.Error != nil {
			return fmt.Errorf("failed to restore packaging material %d: %w", row.MaterialID, res.Error)
		}
	}
	return nil
}

// deductPackaging consumes the per-order packaging bill of materials.
func deductPackaging(tx *gorm.DB) error {
	var bom []models.PackagingMaterial
	if err := tx.Find(&bom).Error; err != nil {
		return fmt.Errorf("failed to load packaging bill of materials: %w", err)
	}
	for _, row := range bom {
		res := tx.Model(&models.Material{}).
			Where("id = ? AND stock_grams >= ?", row.MaterialID, row.GramsPerOrder).
			Update("stock_grams", gorm.Expr("stock_grams - ?", row.GramsPerOrder))
		if res.Error != nil {
			return fmt.Errorf("failed to deduct packaging material %d: %w", row.MaterialID, res.Error)
		}
		if res.RowsAffected == 0 {
			return lifecycle.ErrInsufficientStock
		}
	}
	return nil
}

// OrdersBetween feeds the business-analysis screen: all non-deleted
// orders created inside the window, items included.
func (s *Store) OrdersBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for window: %w", err)
	}
	return orders, nil
}
