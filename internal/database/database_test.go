package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind6482/WordWise/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Connect(Options{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleWords() []models.Word {
	return []models.Word{
		{ID: "w1", SourceText: "кошка", TargetText: "cat", Level: models.Beginner},
		{ID: "w2", SourceText: "собака", TargetText: "dog", Level: models.Beginner},
		{ID: "w3", SourceText: "дом", TargetText: "house", Level: models.Beginner, IsLearned: true},
		{ID: "w4", SourceText: "решать", TargetText: "decide", Level: models.Intermediate},
		{ID: "w5", SourceText: "неоднозначный", TargetText: "ambiguous", Level: models.Advanced, IsLearned: true, NeedsRepetition: true},
	}
}

func TestWordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))
	require.NoError(t, repo.Insert(ctx, sampleWords()))

	t.Run("by level", func(t *testing.T) {
		words, err := repo.GetByLevel(ctx, models.Beginner)
		require.NoError(t, err)
		assert.Len(t, words, 3)

		count, err := repo.CountByLevel(ctx, models.Intermediate)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("random returns only unlearned words", func(t *testing.T) {
		words, err := repo.GetRandomByLevel(ctx, models.Beginner, 10)
		require.NoError(t, err)
		require.Len(t, words, 2)
		for _, w := range words {
			assert.False(t, w.IsLearned)
			assert.Equal(t, models.Beginner, w.Level)
		}

		words, err = repo.GetRandomByLevel(ctx, models.Beginner, 0)
		require.NoError(t, err)
		assert.Empty(t, words)
	})

	t.Run("learned", func(t *testing.T) {
		words, err := repo.GetLearned(ctx)
		require.NoError(t, err)
		require.Len(t, words, 2)
		assert.Equal(t, "ambiguous", words[0].TargetText)
		assert.True(t, words[0].NeedsRepetition)
	})

	t.Run("by ids", func(t *testing.T) {
		words, err := repo.GetByIDs(ctx, []string{"w4", "w1", "missing"})
		require.NoError(t, err)
		assert.Len(t, words, 2)
	})
}

func TestWordRepositoryInsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))
	require.NoError(t, repo.Insert(ctx, sampleWords()))

	require.NoError(t, repo.Insert(ctx, []models.Word{
		{ID: "w1", SourceText: "кот", TargetText: "cat", Level: models.Beginner},
	}))

	words, err := repo.GetByIDs(ctx, []string{"w1"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "кот", words[0].SourceText)

	count, err := repo.CountByLevel(ctx, models.Beginner)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestWordRepositoryMarkLearnedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))
	require.NoError(t, repo.Insert(ctx, sampleWords()))

	require.NoError(t, repo.MarkLearned(ctx, "w1"))
	require.NoError(t, repo.MarkLearned(ctx, "w1"))
	require.NoError(t, repo.MarkLearned(ctx, "unknown"))

	words, err := repo.GetByIDs(ctx, []string{"w1"})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.True(t, words[0].IsLearned)

	learned, err := repo.GetLearned(ctx)
	require.NoError(t, err)
	assert.Len(t, learned, 3)
}

func TestWordRepositoryRepetitionAndReset(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))
	require.NoError(t, repo.Insert(ctx, sampleWords()))

	require.NoError(t, repo.MarkRepetition(ctx, "w3", true))
	words, err := repo.GetByIDs(ctx, []string{"w3"})
	require.NoError(t, err)
	assert.True(t, words[0].NeedsRepetition)

	require.NoError(t, repo.ResetAll(ctx))

	learned, err := repo.GetLearned(ctx)
	require.NoError(t, err)
	assert.Empty(t, learned)

	all, err := repo.GetByIDs(ctx, []string{"w1", "w2", "w3", "w4", "w5"})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for _, w := range all {
		assert.False(t, w.IsLearned, w.ID)
		assert.False(t, w.NeedsRepetition, w.ID)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	assert.ErrorIs(t, repo.UpdateStats(ctx, 1, 1, 1), ErrUserNotFound)

	require.NoError(t, repo.Save(ctx, &models.User{Name: "Anna", Level: models.Beginner}))

	require.NoError(t, repo.UpdateStats(ctx, 3, 3, 5))
	require.NoError(t, repo.UpdateStats(ctx, 1, 1, 2))
	require.NoError(t, repo.UpdateLevel(ctx, models.Advanced))

	user, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.DefaultUserID, user.ID)
	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, models.Advanced, user.Level)
	assert.Equal(t, 4, user.WordsLearned)
	assert.Equal(t, 4, user.CorrectAnswers)
	assert.Equal(t, 7, user.TotalAnswers)

	require.NoError(t, repo.ResetProgress(ctx))
	user, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, models.Advanced, user.Level)
	assert.Zero(t, user.WordsLearned)
	assert.Zero(t, user.CorrectAnswers)
	assert.Zero(t, user.TotalAnswers)
}

func TestTestResultRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	words := NewWordRepository(db)
	results := NewTestResultRepository(db, words)
	require.NoError(t, words.Insert(ctx, sampleWords()))

	stats, err := results.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTests)

	older := &models.TestResult{CorrectAnswers: 5, TotalQuestions: 5, Timestamp: 1000}
	require.NoError(t, results.Create(ctx, older))
	assert.NotEmpty(t, older.ID)

	newer := &models.TestResult{
		CorrectAnswers: 3,
		TotalQuestions: 5,
		Timestamp:      2000,
		IncorrectWords: []models.Word{{ID: "w4"}, {ID: "w1"}},
	}
	require.NoError(t, results.Create(ctx, newer))

	all, err := results.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, int64(2000), all[0].Timestamp)
	require.Len(t, all[0].IncorrectWords, 2)
	assert.Equal(t, "decide", all[0].IncorrectWords[0].TargetText)
	assert.Equal(t, "cat", all[0].IncorrectWords[1].TargetText)
	assert.Empty(t, all[1].IncorrectWords)

	recent, err := results.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, newer.ID, recent[0].ID)

	stats, err = results.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTests)
	assert.Equal(t, 10, stats.TotalQuestions)
	assert.Equal(t, 8, stats.TotalCorrect)
	assert.InDelta(t, 0.8, stats.AvgScore, 0.0001)
}

func TestTestResultRepositoryAssignsTimestamp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	results := NewTestResultRepository(db, NewWordRepository(db))

	result := &models.TestResult{CorrectAnswers: 1, TotalQuestions: 2}
	require.NoError(t, results.Create(ctx, result))
	assert.Positive(t, result.Timestamp)
}

func TestPreferencesRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferencesRepository(newTestDB(t))

	theme, err := repo.Get(ctx, PrefTheme, ThemeSystem)
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, theme)

	require.NoError(t, repo.Set(ctx, PrefTheme, ThemeDark))
	require.NoError(t, repo.Set(ctx, PrefTheme, ThemeLight))
	theme, err = repo.Get(ctx, PrefTheme, ThemeSystem)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	n, err := repo.GetInt(ctx, PrefWordsPerTest, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	require.NoError(t, repo.Set(ctx, PrefWordsPerTest, "15"))
	n, err = repo.GetInt(ctx, PrefWordsPerTest, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	require.NoError(t, repo.Set(ctx, PrefWordsPerTest, "many"))
	n, err = repo.GetInt(ctx, PrefWordsPerTest, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestReorderWordsByIDs(t *testing.T) {
	words := []models.Word{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := reorderWordsByIDs(words, parseIDString("c, a,,missing,b"))
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
	assert.Equal(t, "a,b,c", wordsToIDString(words))
}
