package domain

import "time"

type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex" json:"name" form:"name"`
	Description string    `gorm:"size:4096" json:"description" form:"description"`
	Image       string    `gorm:"size:1024" json:"image" form:"image"`
	Status      string    `gorm:"size:32;index" json:"status" form:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ProductCount is recomputed on every read, never stored
	ProductCount int64 `gorm:"-" json:"product_count"`
}

func (Category) TableName() string {
	return "categories"
}
