package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Email     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"type:varchar(20)" json:"phone"`
	Language  string         `gorm:"type:varchar(2);default:'en'" json:"language"` // "ar" or "en"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// Governorate maps a shipping region to its flat delivery fee.
type Governorate struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	NameEN string          `gorm:"type:varchar(100);not null" json:"name_en"`
	NameAR string          `gorm:"type:varchar(100)" json:"name_ar"`
	Fee    decimal.Decimal `gorm:"type:decimal(10,2)" json:"fee"`
}

func (Governorate) TableName() string {
	return "shipping_governorates"
}

type Review struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	CustomerID string         `gorm:"type:varchar(36)" json:"customer_id"`
	Rating     int            `gorm:"not null" json:"rating"`
	Comment    string         `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
