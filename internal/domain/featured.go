package domain

import "time"

// Featured list types
const (
	FeaturedProducts   = "products"
	FeaturedCategories = "categories"
	FeaturedMarkas     = "markas"
)

// FeaturedEntry is one slot of an admin curated featured list. Identity is
// positional: ids and order values are a dense 1..N sequence reassigned on
// every mutation, so an entry id is only valid until the next replace or
// remove on the same list.
type FeaturedEntry struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ListType  string    `gorm:"primaryKey;size:32" json:"-"`
	TargetID  int64     `gorm:"index" json:"target_id"`
	Order     int       `gorm:"column:sort_order" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FeaturedEntry) TableName() string {
	return "featured_entries"
}
