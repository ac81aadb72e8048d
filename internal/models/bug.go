package models

import (
	"time"
)

// Bug shares the card shape with Feature but carries its own variant fields.
// Bugs have no graveyard: there is no delete path for them.
type Bug struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Bid              string    `gorm:"uniqueIndex;size:8;not null" json:"bid"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	User             User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title            string    `gorm:"not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	CurrentSituation string    `gorm:"type:text" json:"current_situation"`
	ExpectedBehavior string    `gorm:"type:text" json:"expected_behavior"`
	URL              string    `json:"url"` // Optional
	Status           string    `gorm:"size:20;default:'new';not null" json:"status"`
	Product          string    `gorm:"size:50;not null;index" json:"product"`
	Reporter         string    `gorm:"size:100;not null" json:"reporter"`
	Votes            int       `gorm:"default:0" json:"votes"`
	AttachmentURL    string    `json:"attachment_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Not a database column, filled in after list queries.
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (b Bug) CardTitle() string           { return b.Title }
func (b Bug) CardDescription() string     { return b.Description }
func (b Bug) CardProduct() string         { return b.Product }
func (b Bug) CardStatus() string          { return b.Status }
func (b Bug) CardLocation() string        { return "" }
func (b Bug) CardReporter() string        { return b.Reporter }
func (b Bug) CardExperimentOwner() string { return "" }
func (b Bug) CardVotes() int              { return b.Votes }
func (b Bug) CardCreatedAt() time.Time    { return b.CreatedAt }
