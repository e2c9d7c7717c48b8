package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SetStatusPending = "pending"
	SetStatusReady   = "ready"
)

// FlashcardSet is one entry of a user's set index. Its cards live in the
// flashcards table keyed by owner and set name, not by a foreign key, so a set
// can be read back even when the index and the cards disagree.
type FlashcardSet struct {
	gorm.Model
	UserID   uint   `gorm:"not null;uniqueIndex:idx_user_set_name"`
	Name     string `gorm:"not null;size:200;uniqueIndex:idx_user_set_name"`
	PublicID string `gorm:"size:21;uniqueIndex"`
	Status   string `gorm:"not null;size:16;default:pending"`
	User     User   `gorm:"foreignKey:UserID" json:"-"`
}

// SetSummary is the listing view of a set.
type SetSummary struct {
	Name      string    `json:"name"`
	PublicID  string    `json:"publicId"`
	Status    string    `json:"status"`
	CardCount int64     `json:"cardCount"`
	CreatedAt time.Time `json:"createdAt"`
}
