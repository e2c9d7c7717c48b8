package models

import "time"

// Card is one question/answer pair as produced by the generator and shown to users.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Flashcard is the stored form of a Card. ID is generated by the store.
type Flashcard struct {
	ID        string `gorm:"primaryKey;size:21"`
	OwnerID   string `gorm:"not null;size:191;index:idx_owner_set"`
	SetName   string `gorm:"not null;size:200;index:idx_owner_set"`
	Front     string `gorm:"not null"`
	Back      string `gorm:"not null"`
	CreatedAt time.Time
}

func (f Flashcard) Card() Card {
	return Card{Front: f.Front, Back: f.Back}
}
