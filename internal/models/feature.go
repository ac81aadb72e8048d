package models

import (
	"time"
)

// Item status values shared by features and bugs.
const (
	StatusNew       = "new"
	StatusReview    = "review"
	StatusProgress  = "progress"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the recognized status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusReview, StatusProgress, StatusCompleted:
		return true
	}
	return false
}

type Feature struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Fid             string     `gorm:"uniqueIndex;size:8;not null" json:"fid"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          string     `gorm:"size:20;default:'new';not null" json:"status"`
	Product         string     `gorm:"size:50;not null;index" json:"product"`
	Location        string     `gorm:"size:50" json:"location"`
	ExperimentOwner string     `gorm:"size:100" json:"experiment_owner"`
	Reporter        string     `gorm:"size:100;not null" json:"reporter"`
	Votes           int        `gorm:"default:0" json:"votes"`
	AttachmentURL   string     `json:"attachment_url"`
	DeletedAt       *time.Time `gorm:"index" json:"deleted_at"` // graveyard marker, cleared on restore
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Not a database column, filled in after list queries.
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (f Feature) CardTitle() string           { return f.Title }
func (f Feature) CardDescription() string     { return f.Description }
func (f Feature) CardProduct() string         { return f.Product }
func (f Feature) CardStatus() string          { return f.Status }
func (f Feature) CardLocation() string        { return f.Location }
func (f Feature) CardReporter() string        { return f.Reporter }
func (f Feature) CardExperimentOwner() string { return f.ExperimentOwner }
func (f Feature) CardVotes() int              { return f.Votes }
func (f Feature) CardCreatedAt() time.Time    { return f.CreatedAt }
