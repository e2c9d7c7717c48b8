package models

import "gorm.io/gorm"

// User is the root record of one identity-provider subject. Its Sets form the
// per-user set index.
type User struct {
	gorm.Model
	OwnerID string         `gorm:"uniqueIndex;not null;size:191"`
	Sets    []FlashcardSet `gorm:"foreignKey:UserID"`
}
