package domain

import "time"

// Marka is a product brand
type Marka struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex" json:"name" form:"name"`
	Description string    `gorm:"size:4096" json:"description" form:"description"`
	Logo        string    `gorm:"size:1024" json:"logo" form:"logo"`
	Website     string    `gorm:"size:512" json:"website" form:"website"`
	Status      string    `gorm:"size:32;index" json:"status" form:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ProductCount is recomputed on every read, never stored
	ProductCount int64 `gorm:"-" json:"product_count"`
}

func (Marka) TableName() string {
	return "markas"
}
