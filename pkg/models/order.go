package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is owned by exactly one customer or by an anonymous guest session.
type Order struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerID    *string `gorm:"type:varchar(36);index" json:"customer_id,omitempty"`
	SessionID     *string `gorm:"type:varchar(64);index" json:"session_id,omitempty"`
	GovernorateID *uint   `json:"governorate_id,omitempty"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
	ShippingTotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"shipping_total"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(10,2)" json:"tax_total"`
	DiscountTotal decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_total"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"grand_total"`

	Status        OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentStatus string      `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	Packed        bool        `gorm:"default:false" json:"packed"`

	// Denormalized promo snapshot. DiscountTotal persisted at creation is
	// the source of truth; PromoPercentage only feeds the read-time
	// fallback for rows created before discounts were persisted.
	AppliedPromoCode *string          `gorm:"type:varchar(40)" json:"applied_promo_code,omitempty"`
	PromoPercentage  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"promo_percentage,omitempty"`

	TrackingCode *string `gorm:"type:varchar(40)" json:"tracking_code,omitempty"` // carrier AWB

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem rows never outlive their order.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	VariantID *uint           `json:"variant_id,omitempty"`
	Slug      string          `gorm:"type:varchar(120)" json:"slug"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsSubtotal sums line totals; it must agree with the persisted
// Subtotal for orders created through checkout.
func (o *Order) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
