package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product carries bilingual names; the Arabic storefront and the English
// admin read the same row.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Slug        string          `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	NameEN      string          `gorm:"type:varchar(200);not null" json:"name_en"`
	NameAR      string          `gorm:"type:varchar(200)" json:"name_ar"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`

	Materials []ProductMaterial `gorm:"foreignKey:ProductID" json:"materials,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// Material is a raw material tracked in grams (or another unit).
type Material struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"type:varchar(200);not null" json:"name"`
	Unit       string          `gorm:"type:varchar(20);default:'grams'" json:"unit"`
	StockGrams decimal.Decimal `gorm:"type:decimal(12,3)" json:"stock_grams"`
	SupplierID *uint           `json:"supplier_id,omitempty"`
	CostPerKg  decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost_per_kg"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Material) TableName() string {
	return "materials"
}

// ProductMaterial is one bill-of-materials row: grams of a material
// consumed per unit of the product.
type ProductMaterial struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	MaterialID   uint            `gorm:"not null;index" json:"material_id"`
	GramsPerUnit decimal.Decimal `gorm:"type:decimal(12,3)" json:"grams_per_unit"`
}

func (ProductMaterial) TableName() string {
	return "product_materials"
}

// PackagingMaterial is consumed per fulfilled order, independent of the
// products inside (boxes, tape, filler).
type PackagingMaterial struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	MaterialID    uint            `gorm:"not null;index" json:"material_id"`
	GramsPerOrder decimal.Decimal `gorm:"type:decimal(12,3)" json:"grams_per_order"`
}

func (PackagingMaterial) TableName() string {
	return "packaging_materials"
}

type Supplier struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`
	Phone     string         `gorm:"type:varchar(30)" json:"phone"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
