package models

import (
	"time"
)

type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Cid           string    `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	ItemType      string    `gorm:"size:20;not null;index" json:"item_type"` // "feature", "bug"
	ItemID        uint      `gorm:"not null;index" json:"item_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AttachmentURL string    `json:"attachment_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
