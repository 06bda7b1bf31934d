package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// ErrUserNotFound is returned when the profile has not been created yet
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles the single learner profile
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Get returns the profile, or (nil, nil) before onboarding
func (r *UserRepository) Get(ctx context.Context) (*models.User, error) {
	query := r.db.Rebind(`
		SELECT id, name, level, words_learned, correct_answers, total_answers
		FROM users WHERE id = ?
	`)

	var user models.User
	err := r.db.GetContext(ctx, &user, query, models.DefaultUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user (id: %s): %w", models.DefaultUserID, err)
	}
	return &user, nil
}

// Save creates the profile or overwrites it
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.DefaultUserID
	}

	query, args, err := r.db.psql.Insert("users").
		Columns("id", "name", "level", "words_learned", "correct_answers", "total_answers").
		Values(user.ID, user.Name, user.Level, user.WordsLearned, user.CorrectAnswers, user.TotalAnswers).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			level = EXCLUDED.level,
			words_learned = EXCLUDED.words_learned,
			correct_answers = EXCLUDED.correct_answers,
			total_answers = EXCLUDED.total_answers`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (id: %s): %w", user.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save user (id: %s, name: %s): %w", user.ID, user.Name, err)
	}
	return nil
}

// UpdateLevel changes the profile level only
func (r *UserRepository) UpdateLevel(ctx context.Context, level models.Level) error {
	query := r.db.Rebind("UPDATE users SET level = ? WHERE id = ?")
	return r.execOnUser(ctx, "update user level", query, level, models.DefaultUserID)
}

// UpdateStats adds the given deltas to the aggregate counters
func (r *UserRepository) UpdateStats(ctx context.Context, wordsLearned, correctAnswers, totalAnswers int) error {
	query := r.db.Rebind(`
		UPDATE users SET
			words_learned = words_learned + ?,
			correct_answers = correct_answers + ?,
			total_answers = total_answers + ?
		WHERE id = ?
	`)
	return r.execOnUser(ctx, "update user stats", query, wordsLearned, correctAnswers, totalAnswers, models.DefaultUserID)
}

// ResetProgress sets every counter back to zero
func (r *UserRepository) ResetProgress(ctx context.Context) error {
	query := r.db.Rebind(`
		UPDATE users SET words_learned = 0, correct_answers = 0, total_answers = 0
		WHERE id = ?
	`)
	return r.execOnUser(ctx, "reset user progress", query, models.DefaultUserID)
}

func (r *UserRepository) execOnUser(ctx context.Context, action, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s (id: %s): %w", action, models.DefaultUserID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected: %w", action, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s (id: %s): %w", action, models.DefaultUserID, ErrUserNotFound)
	}
	return nil
}
