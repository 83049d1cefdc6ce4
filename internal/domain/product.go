package domain

import "time"

// Product is a single catalog item. Category and Marka are enrichment
// fields resolved at read time, never persisted with the product row.
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Description string    `gorm:"size:4096" json:"description" form:"description"`
	Price       float64   `json:"price" form:"price"`
	CategoryID  int64     `gorm:"index" json:"category_id" form:"category_id"`
	MarkaID     int64     `gorm:"index" json:"marka_id" form:"marka_id"`
	Image       string    `gorm:"size:1024" json:"image" form:"image"`
	Stock       int       `json:"stock" form:"stock"`
	Status      string    `gorm:"size:32;index" json:"status" form:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category `gorm:"-" json:"category,omitempty"`
	Marka    *Marka    `gorm:"-" json:"marka,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
