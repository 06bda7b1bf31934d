package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mastermind6482/WordWise/pkg/models"
)

var wordColumns = []string{"id", "source_text", "target_text", "level", "is_learned", "needs_repetition"}

// WordRepository handles database operations for words
type WordRepository struct {
	db *DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetByLevel returns all words of a level
func (r *WordRepository) GetByLevel(ctx context.Context, level models.Level) ([]models.Word, error) {
	query := r.db.psql.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"level": level}).
		OrderBy("target_text")

	words, err := r.selectWords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get words by level (level: %s): %w", level, err)
	}
	return words, nil
}

// GetLearned returns every word marked as learned
func (r *WordRepository) GetLearned(ctx context.Context) ([]models.Word, error) {
	query := r.db.psql.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"is_learned": true}).
		OrderBy("target_text")

	words, err := r.selectWords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get learned words: %w", err)
	}
	return words, nil
}

// GetRandomByLevel returns up to count random unlearned words of a level
func (r *WordRepository) GetRandomByLevel(ctx context.Context, level models.Level, count int) ([]models.Word, error) {
	if count <= 0 {
		return nil, nil
	}

	query := r.db.psql.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"level": level, "is_learned": false}).
		OrderBy("RANDOM()").
		Limit(uint64(count))

	words, err := r.selectWords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get random words (level: %s, count: %d): %w", level, count, err)
	}
	return words, nil
}

// GetByIDs returns the words with the given ids in no particular order
func (r *WordRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := r.db.psql.Select(wordColumns...).
		From("words").
		Where(squirrel.Eq{"id": ids})

	words, err := r.selectWords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get words by ids (count: %d): %w", len(ids), err)
	}
	return words, nil
}

// CountByLevel returns how many words of a level are stored
func (r *WordRepository) CountByLevel(ctx context.Context, level models.Level) (int, error) {
	query, args, err := r.db.psql.Select("COUNT(*)").
		From("words").
		Where(squirrel.Eq{"level": level}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query (level: %s): %w", level, err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count words (level: %s): %w", level, err)
	}
	return count, nil
}

// Insert stores words, replacing rows that share an id
func (r *WordRepository) Insert(ctx context.Context, words []models.Word) error {
	if len(words) == 0 {
		return nil
	}

	query := r.db.psql.Insert("words").Columns(wordColumns...)
	for _, w := range words {
		query = query.Values(w.ID, w.SourceText, w.TargetText, w.Level, w.IsLearned, w.NeedsRepetition)
	}
	query = query.Suffix(`ON CONFLICT (id) DO UPDATE SET
		source_text = EXCLUDED.source_text,
		target_text = EXCLUDED.target_text,
		level = EXCLUDED.level,
		is_learned = EXCLUDED.is_learned,
		needs_repetition = EXCLUDED.needs_repetition`)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (words: %d): %w", len(words), err)
	}

	if _, err := r.db.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert words (count: %d): %w", len(words), err)
	}
	return nil
}

// MarkLearned sets the learned flag. Marking an already learned or unknown word
// is not an error.
func (r *WordRepository) MarkLearned(ctx context.Context, id string) error {
	query := r.db.Rebind("UPDATE words SET is_learned = ? WHERE id = ?")
	if _, err := r.db.ExecContext(ctx, query, true, id); err != nil {
		return fmt.Errorf("mark word learned (id: %s): %w", id, err)
	}
	return nil
}

// MarkRepetition sets or clears the repetition flag
func (r *WordRepository) MarkRepetition(ctx context.Context, id string, needsRepetition bool) error {
	query := r.db.Rebind("UPDATE words SET needs_repetition = ? WHERE id = ?")
	if _, err := r.db.ExecContext(ctx, query, needsRepetition, id); err != nil {
		return fmt.Errorf("mark word for repetition (id: %s): %w", id, err)
	}
	return nil
}

// ResetAll clears learned and repetition flags on every word
func (r *WordRepository) ResetAll(ctx context.Context) error {
	query := r.db.Rebind("UPDATE words SET is_learned = ?, needs_repetition = ?")
	if _, err := r.db.ExecContext(ctx, query, false, false); err != nil {
		return fmt.Errorf("reset words: %w", err)
	}
	return nil
}

func (r *WordRepository) selectWords(ctx context.Context, query squirrel.SelectBuilder) ([]models.Word, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query: %w", err)
	}

	var words []models.Word
	if err := r.db.SelectContext(ctx, &words, sql, args...); err != nil {
		return nil, err
	}
	return words, nil
}
