package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// TestStats aggregates every stored test result
type TestStats struct {
	TotalTests     int     `db:"total_tests"`
	AvgScore       float64 `db:"avg_score"`
	TotalQuestions int     `db:"total_questions"`
	TotalCorrect   int     `db:"total_correct"`
}

type testResultRow struct {
	ID               string `db:"id"`
	CorrectAnswers   int    `db:"correct_answers"`
	TotalQuestions   int    `db:"total_questions"`
	CreatedAt        int64  `db:"created_at"`
	IncorrectWordIDs string `db:"incorrect_word_ids"`
}

// TestResultRepository handles database operations for test results
type TestResultRepository struct {
	db    *DB
	words *WordRepository
}

// NewTestResultRepository creates a new repository instance. Incorrect words are
// resolved through the word repository on read.
func NewTestResultRepository(db *DB, words *WordRepository) *TestResultRepository {
	return &TestResultRepository{db: db, words: words}
}

// Create inserts a new test result, assigning id and timestamp when missing
func (r *TestResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Timestamp == 0 {
		result.Timestamp = time.Now().UnixMilli()
	}

	query, args, err := r.db.psql.Insert("test_results").
		Columns("id", "correct_answers", "total_questions", "created_at", "incorrect_word_ids").
		Values(result.ID, result.CorrectAnswers, result.TotalQuestions, result.Timestamp, wordsToIDString(result.IncorrectWords)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (id: %s): %w", result.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create test result (id: %s): %w", result.ID, err)
	}
	return nil
}

// GetAll returns every test result, most recent first
func (r *TestResultRepository) GetAll(ctx context.Context) ([]models.TestResult, error) {
	return r.GetRecent(ctx, 0)
}

// GetRecent returns up to limit test results, most recent first. A non-positive
// limit returns all of them.
func (r *TestResultRepository) GetRecent(ctx context.Context, limit int) ([]models.TestResult, error) {
	query := r.db.psql.Select("id", "correct_answers", "total_questions", "created_at", "incorrect_word_ids").
		From("test_results").
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query: %w", err)
	}

	var rows []testResultRow
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get test results: %w", err)
	}

	results := make([]models.TestResult, 0, len(rows))
	for _, row := range rows {
		incorrect, err := r.resolveWords(ctx, row.IncorrectWordIDs)
		if err != nil {
			return nil, err
		}
		results = append(results, models.TestResult{
			ID:             row.ID,
			CorrectAnswers: row.CorrectAnswers,
			TotalQuestions: row.TotalQuestions,
			Timestamp:      row.CreatedAt,
			IncorrectWords: incorrect,
		})
	}
	return results, nil
}

// Stats returns aggregate statistics over all tests
func (r *TestResultRepository) Stats(ctx context.Context) (*TestStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_tests,
			COALESCE(AVG(CAST(correct_answers AS DOUBLE PRECISION) / NULLIF(total_questions, 0)), 0) AS avg_score,
			COALESCE(SUM(total_questions), 0) AS total_questions,
			COALESCE(SUM(correct_answers), 0) AS total_correct
		FROM test_results
	`

	var stats TestStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("get test stats: %w", err)
	}
	return &stats, nil
}

func (r *TestResultRepository) resolveWords(ctx context.Context, idString string) ([]models.Word, error) {
	ids := parseIDString(idString)
	if len(ids) == 0 {
		return nil, nil
	}

	words, err := r.words.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return reorderWordsByIDs(words, ids), nil
}

// wordsToIDString joins word ids into the stored comma separated form
func wordsToIDString(words []models.Word) string {
	ids := make([]string, len(words))
	for i, word := range words {
		ids[i] = word.ID
	}
	return strings.Join(ids, ",")
}

func parseIDString(idString string) []string {
	var ids []string
	for _, id := range strings.Split(idString, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// reorderWordsByIDs returns words in the order of ids, skipping ids that did not
// resolve
func reorderWordsByIDs(words []models.Word, ids []string) []models.Word {
	wordMap := make(map[string]models.Word, len(words))
	for _, word := range words {
		wordMap[word.ID] = word
	}

	reordered := make([]models.Word, 0, len(ids))
	for _, id := range ids {
		if word, exists := wordMap[id]; exists {
			reordered = append(reordered, word)
		}
	}
	return reordered
}
