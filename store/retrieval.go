package store

import (
	"context"

	"github.com/andrewpaige1/flashgen-api/errs"
	"github.com/andrewpaige1/flashgen-api/models"
)

// ListSets returns the names in ownerID's set index. An owner without a root
// record has no sets.
func (s *SetStore) ListSets(ctx context.Context, ownerID string) ([]string, error) {
	if ownerID == "" {
		return nil, errs.Auth("You must be logged in to view flashcards.")
	}

	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.FlashcardSet{}).
		Joins("JOIN users ON users.id = flashcard_sets.user_id").
		Where("users.owner_id = ?", ownerID).
		Order("flashcard_sets.id").
		Pluck("flashcard_sets.name", &names).Error
	if err != nil {
		return nil, errs.Downstream(err, "Failed to fetch flashcard sets")
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ListCards returns every card stored under ownerID and name. It does not look
// at the index, so cards of a pending set are returned as well.
func (s *SetStore) ListCards(ctx context.Context, ownerID, name string) ([]models.Card, error) {
	if ownerID == "" {
		return nil, errs.Auth("You must be logged in to view flashcards.")
	}

	var records []models.Flashcard
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND set_name = ?", ownerID, name).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, errs.Downstream(err, "Failed to fetch flashcards")
	}

	cards := make([]models.Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, r.Card())
	}
	return cards, nil
}

// ListSetSummaries is ListSets with status and card counts.
func (s *SetStore) ListSetSummaries(ctx context.Context, ownerID string) ([]models.SetSummary, error) {
	if ownerID == "" {
		return nil, errs.Auth("You must be logged in to view flashcards.")
	}
	db := s.db.WithContext(ctx)

	var sets []models.FlashcardSet
	err := db.Joins("JOIN users ON users.id = flashcard_sets.user_id").
		Where("users.owner_id = ?", ownerID).
		Order("flashcard_sets.id").
		Find(&sets).Error
	if err != nil {
		return nil, errs.Downstream(err, "Failed to fetch flashcard sets")
	}

	var counts []struct {
		SetName string
		Total   int64
	}
	err = db.Model(&models.Flashcard{}).
		Select("set_name, count(*) AS total").
		Where("owner_id = ?", ownerID).
		Group("set_name").
		Scan(&counts).Error
	if err != nil {
		return nil, errs.Downstream(err, "Failed to fetch flashcard sets")
	}
	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.SetName] = c.Total
	}

	summaries := make([]models.SetSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, models.SetSummary{
			Name:      set.Name,
			PublicID:  set.PublicID,
			Status:    set.Status,
			CardCount: byName[set.Name],
			CreatedAt: set.CreatedAt,
		})
	}
	return summaries, nil
}
