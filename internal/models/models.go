package models

import (
	"time"
)

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null"                 json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`

	// Filled by the left-join listing query, not a column.
	NumberOfProducts int64 `gorm:"-" json:"number_of_products"`
}

type Ingredient struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string  `gorm:"not null"                 json:"name"`
	Type     string  `gorm:"not null"                 json:"type"`
	Price    float64 `gorm:"not null"                 json:"price"`
	ImageURL string  `json:"image_url"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint   `gorm:"index;not null"           json:"category_id"`
	Name        string `gorm:"not null"                 json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`

	Category *Category        `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE"  json:"variants"`

	// Filled from the joined category row on reads; not a products column.
	CategoryName string `gorm:"->;-:migration" json:"category"`
}

type ProductVariant struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint    `gorm:"index;not null"           json:"product_id"`
	Size      string  `gorm:"not null"                 json:"size"`
	Price     float64 `gorm:"not null"                 json:"price"`
}

type Order struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time `gorm:"not null"                 json:"created_at"`
	TotalPrice float64   `gorm:"not null"                 json:"total_price"`
	IsTakeaway bool      `gorm:"not null"                 json:"is_takeaway"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem carries no foreign key on ProductVariantID: variants are replaced
// wholesale on product edits and historical orders must stay readable, so the
// product name and size are snapshotted onto the row at order time.
type OrderItem struct {
	ID               uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID          uint    `gorm:"index;not null"            json:"order_id"`
	ProductVariantID uint    `gorm:"index;not null"            json:"product_variant_id"`
	ProductName      string  `gorm:"not null"                  json:"product_name"`
	VariantSize      string  `gorm:"not null"                  json:"variant_size"`
	Quantity         uint    `gorm:"not null;check:quantity>0" json:"quantity"`
	Price            float64 `gorm:"not null"                  json:"price"`

	Ingredients []OrderItemIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

type OrderItemIngredient struct {
	ID           uint `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderItemID  uint `gorm:"index;not null"            json:"order_item_id"`
	IngredientID uint `gorm:"index;not null"            json:"ingredient_id"`
	Quantity     uint `gorm:"not null;check:quantity>0" json:"quantity"`

	Ingredient *Ingredient `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}
