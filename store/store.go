// Package store persists named flashcard sets per owner.
//
// A user's root record carries the set index (one FlashcardSet row per name).
// The cards of a set are stored separately, keyed by owner and set name, and
// are written in batches that each commit atomically. A save is therefore not
// atomic as a whole: when a later batch fails the earlier ones stay committed
// and the index entry keeps the "pending" status instead of becoming "ready".
// Retrieval never consults the index status.
package store

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashgen-api/config"
	"github.com/andrewpaige1/flashgen-api/errs"
	"github.com/andrewpaige1/flashgen-api/models"
)

const maxSetNameLength = 200

var namePolicy = bluemonday.StrictPolicy()

type SetStore struct {
	db        *gorm.DB
	batchSize int
}

// NewSetStore returns a store writing cards in batches of batchSize. Values
// outside 1..config.MaxBatchSize fall back to config.DefaultBatchSize.
func NewSetStore(db *gorm.DB, batchSize int) *SetStore {
	if batchSize < 1 || batchSize > config.MaxBatchSize {
		batchSize = config.DefaultBatchSize
	}
	return &SetStore{db: db, batchSize: batchSize}
}

func (s *SetStore) BatchSize() int {
	return s.batchSize
}

// Save records name in ownerID's index and writes cards under it. The name is
// stored exactly as given; only a blank name is rejected. It fails with
// errs.ErrDuplicateName, without writing anything, when the owner already has
// a set of that name.
func (s *SetStore) Save(ctx context.Context, ownerID, name string, cards []models.Card) error {
	if ownerID == "" {
		return errs.Auth("You must be logged in to save flashcards.")
	}
	if err := validateSetName(name); err != nil {
		return err
	}
	if err := validateCards(cards); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)

	taken, err := s.hasSet(db, ownerID, name)
	if err != nil {
		log.Printf("SetStore.Save: failed to read index for owner=%s: %v", ownerID, err)
		return errs.Downstream(err, "Failed to save flashcards")
	}
	if taken {
		return errs.DuplicateName(name)
	}

	set, err := s.addToIndex(db, ownerID, name)
	if err != nil {
		return err
	}

	committed, err := s.writeCards(db, ownerID, name, cards)
	if err != nil {
		log.Printf("SetStore.Save: set %q for owner=%s left pending after %d of %d cards: %v", name, ownerID, committed, len(cards), err)
		return errs.Downstream(err, "Failed to save flashcards: %d of %d cards were saved", committed, len(cards))
	}

	if err := db.Model(&set).Update("status", models.SetStatusReady).Error; err != nil {
		log.Printf("SetStore.Save: failed to mark set %q ready for owner=%s: %v", name, ownerID, err)
		return errs.Downstream(err, "Failed to save flashcards")
	}

	log.Printf("SetStore.Save: saved set %q with %d cards for owner=%s", name, len(cards), ownerID)
	return nil
}

func validateSetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Validation("Please enter a name for your flashcard set.")
	}
	if utf8.RuneCountInString(name) > maxSetNameLength {
		return errs.Validation("Set names can be at most %d characters long.", maxSetNameLength)
	}
	if html.UnescapeString(namePolicy.Sanitize(name)) != name {
		return errs.Validation("Set names cannot contain HTML.")
	}
	return nil
}

func validateCards(cards []models.Card) error {
	if len(cards) == 0 {
		return errs.Validation("A flashcard set needs at least one card.")
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return errs.Validation("Flashcard %d must have a front and a back.", i+1)
		}
	}
	return nil
}

func (s *SetStore) hasSet(db *gorm.DB, ownerID, name string) (bool, error) {
	var count int64
	err := db.Model(&models.FlashcardSet{}).
		Joins("JOIN users ON users.id = flashcard_sets.user_id").
		Where("users.owner_id = ? AND flashcard_sets.name = ?", ownerID, name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// addToIndex creates the owner's root record if needed and appends a pending
// index entry, in one transaction.
func (s *SetStore) addToIndex(db *gorm.DB, ownerID, name string) (models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where(models.User{OwnerID: ownerID}).FirstOrCreate(&user).Error; err != nil {
			return err
		}

		publicID, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate set id: %w", err)
		}

		set = models.FlashcardSet{
			UserID:   user.ID,
			Name:     name,
			PublicID: publicID,
			Status:   models.SetStatusPending,
		}
		return tx.Create(&set).Error
	})
	if err == nil {
		return set, nil
	}

	// A concurrent save may have claimed the name between the check and the insert.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if taken, checkErr := s.hasSet(db, ownerID, name); checkErr == nil && taken {
			return set, errs.DuplicateName(name)
		}
	}
	log.Printf("SetStore.Save: failed to update index for owner=%s: %v", ownerID, err)
	return set, errs.Downstream(err, "Failed to save flashcards")
}

// writeCards commits cards in sequential batches and returns how many were
// committed before the first failure.
func (s *SetStore) writeCards(db *gorm.DB, ownerID, name string, cards []models.Card) (int, error) {
	committed := 0
	for start := 0; start < len(cards); start += s.batchSize {
		end := min(start+s.batchSize, len(cards))

		records := make([]models.Flashcard, 0, end-start)
		for _, c := range cards[start:end] {
			id, err := gonanoid.New()
			if err != nil {
				return committed, fmt.Errorf("failed to generate card id: %w", err)
			}
			records = append(records, models.Flashcard{
				ID:      id,
				OwnerID: ownerID,
				SetName: name,
				Front:   c.Front,
				Back:    c.Back,
			})
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&records).Error
		})
		if err != nil {
			return committed, fmt.Errorf("failed to commit batch starting at card %d: %w", start+1, err)
		}
		committed += len(records)
	}
	return committed, nil
}

// Ping checks that the database answers.
func (s *SetStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
