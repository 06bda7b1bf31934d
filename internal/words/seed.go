package words

import (
	"context"
	"fmt"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// SeedStore is the part of the word store used for first-run seeding
type SeedStore interface {
	CountByLevel(ctx context.Context, level models.Level) (int, error)
	Insert(ctx context.Context, words []models.Word) error
}

// Seed fills an empty store with the built-in word lists and returns the number of
// inserted words. A store that already holds Beginner words is left untouched.
func Seed(ctx context.Context, store SeedStore) (int, error) {
	count, err := store.CountByLevel(ctx, models.Beginner)
	if err != nil {
		return 0, fmt.Errorf("check existing words: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	var words []models.Word
	for _, level := range models.Levels {
		for _, p := range seedWords[level] {
			words = append(words, newWord(level, p))
		}
	}

	if err := store.Insert(ctx, words); err != nil {
		return 0, fmt.Errorf("insert seed words (count: %d): %w", len(words), err)
	}
	return len(words), nil
}
