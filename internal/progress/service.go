package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mastermind6482/WordWise/internal/database"
	"github.com/mastermind6482/WordWise/internal/quiz"
	"github.com/mastermind6482/WordWise/pkg/models"
)

// ErrInvalidName is returned when an onboarding name is rejected
var ErrInvalidName = errors.New("invalid name")

const (
	minNameLength      = 2
	recentResultsLimit = 5
)

// UserStore holds the learner profile
type UserStore interface {
	Get(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	UpdateLevel(ctx context.Context, level models.Level) error
	UpdateStats(ctx context.Context, wordsLearned, correctAnswers, totalAnswers int) error
	ResetProgress(ctx context.Context) error
}

// WordStore is the part of the word store that tracks learning flags
type WordStore interface {
	GetLearned(ctx context.Context) ([]models.Word, error)
	MarkLearned(ctx context.Context, id string) error
	MarkRepetition(ctx context.Context, id string, needsRepetition bool) error
	ResetAll(ctx context.Context) error
}

// ResultStore holds completed test results
type ResultStore interface {
	Create(ctx context.Context, result *models.TestResult) error
	GetRecent(ctx context.Context, limit int) ([]models.TestResult, error)
	Stats(ctx context.Context) (*database.TestStats, error)
}

// Service records test sessions and serves the learner's progress
type Service struct {
	users   UserStore
	words   WordStore
	results ResultStore
}

// NewService creates a progress service
func NewService(users UserStore, words WordStore, results ResultStore) *Service {
	return &Service{
		users:   users,
		words:   words,
		results: results,
	}
}

// RecordSession persists a completed session in three sequential steps: the
// user's counters, the learned flags of correctly answered words and the test
// result. A failing step is reported as a *quiz.PersistenceError and earlier
// steps stay applied.
func (s *Service) RecordSession(ctx context.Context, words []models.Word, result *models.TestResult) error {
	correct := result.CorrectAnswers
	if err := s.users.UpdateStats(ctx, correct, correct, len(words)); err != nil {
		return &quiz.PersistenceError{Step: "update stats", Err: err}
	}

	for _, w := range quiz.CorrectWords(words, result.IncorrectWords) {
		if err := s.words.MarkLearned(ctx, w.ID); err != nil {
			return &quiz.PersistenceError{Step: "mark learned", Err: err}
		}
	}

	if err := s.results.Create(ctx, result); err != nil {
		return &quiz.PersistenceError{Step: "save result", Err: err}
	}

	zap.S().Infow("Test session recorded",
		"result_id", result.ID,
		"correct", result.CorrectAnswers,
		"total", result.TotalQuestions,
	)
	return nil
}

// CreateUser validates the name and stores a fresh profile, replacing any
// existing one
func (s *Service) CreateUser(ctx context.Context, name string, level models.Level) (*models.User, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !level.IsValid() {
		level = models.Beginner
	}

	user := &models.User{
		ID:    models.DefaultUserID,
		Name:  name,
		Level: level,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("create user (name: %s): %w", name, err)
	}
	return user, nil
}

// ValidateName checks an onboarding name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return fmt.Errorf("%w: name must contain at least %d characters", ErrInvalidName, minNameLength)
	}
	return nil
}

// GetUser returns the profile, or nil before onboarding
func (s *Service) GetUser(ctx context.Context) (*models.User, error) {
	return s.users.Get(ctx)
}

// UpdateLevel changes the profile level
func (s *Service) UpdateLevel(ctx context.Context, level models.Level) error {
	if !level.IsValid() {
		return fmt.Errorf("update level: unknown level %q", level)
	}
	return s.users.UpdateLevel(ctx, level)
}

// LearnedWords returns the learned words, keeping only those whose source or
// target text contains query when it is not blank
func (s *Service) LearnedWords(ctx context.Context, query string) ([]models.Word, error) {
	words, err := s.words.GetLearned(ctx)
	if err != nil {
		return nil, err
	}
	return FilterWords(words, query), nil
}

// FilterWords keeps the words whose texts contain query, ignoring case
func FilterWords(words []models.Word, query string) []models.Word {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return words
	}

	filtered := make([]models.Word, 0, len(words))
	for _, w := range words {
		if strings.Contains(strings.ToLower(w.SourceText), query) ||
			strings.Contains(strings.ToLower(w.TargetText), query) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// WordsToReview returns learned words flagged for repetition
func (s *Service) WordsToReview(ctx context.Context) ([]models.Word, error) {
	learned, err := s.words.GetLearned(ctx)
	if err != nil {
		return nil, err
	}
	return wordsToReview(learned), nil
}

func wordsToReview(learned []models.Word) []models.Word {
	var review []models.Word
	for _, w := range learned {
		if w.NeedsRepetition {
			review = append(review, w)
		}
	}
	return review
}

// ToggleRepetition sets or clears the repetition flag of a word
func (s *Service) ToggleRepetition(ctx context.Context, id string, needsRepetition bool) error {
	return s.words.MarkRepetition(ctx, id, needsRepetition)
}

// ResetProgress zeroes the user's counters and then clears every word flag
func (s *Service) ResetProgress(ctx context.Context) error {
	if err := s.users.ResetProgress(ctx); err != nil && !errors.Is(err, database.ErrUserNotFound) {
		return fmt.Errorf("reset user progress: %w", err)
	}
	if err := s.words.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset words: %w", err)
	}

	zap.S().Infow("Progress reset")
	return nil
}
