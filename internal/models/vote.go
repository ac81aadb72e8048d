package models

import (
	"time"
)

// Item type values used by votes and comments to point at their parent.
const (
	ItemTypeFeature = "feature"
	ItemTypeBug     = "bug"
)

// ValidItemType reports whether s names one of the two item collections.
func ValidItemType(s string) bool {
	return s == ItemTypeFeature || s == ItemTypeBug
}

// Vote is one voter's recorded direction on one item. At most one row per
// (item_type, item_id, user_id) — kept that way by delete-before-insert
// sequencing in the vote ledger, not by a uniqueness constraint.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ItemType  string    `gorm:"size:20;not null;index" json:"item_type"` // "feature", "bug"
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}
