package words

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind6482/WordWise/internal/remote"
	"github.com/mastermind6482/WordWise/pkg/models"
)

type memoryStore struct {
	mu    sync.Mutex
	words []models.Word
}

func (s *memoryStore) GetByLevel(_ context.Context, level models.Level) ([]models.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Word
	for _, w := range s.words {
		if w.Level == level {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memoryStore) GetRandomByLevel(ctx context.Context, level models.Level, count int) ([]models.Word, error) {
	all, _ := s.GetByLevel(ctx, level)
	var out []models.Word
	for _, w := range all {
		if !w.IsLearned && len(out) < count {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memoryStore) Insert(_ context.Context, words []models.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = append(s.words, words...)
	return nil
}

func (s *memoryStore) learn(words []models.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, learned := range words {
		for i := range s.words {
			if s.words[i].ID == learned.ID {
				s.words[i].IsLearned = true
			}
		}
	}
}

func (s *memoryStore) CountByLevel(ctx context.Context, level models.Level) (int, error) {
	words, _ := s.GetByLevel(ctx, level)
	return len(words), nil
}

type stubSource struct {
	calls atomic.Int32
	words []string
	err   error
}

func (s *stubSource) RandomWord(_ context.Context, _ models.Level) (*remote.RandomWord, error) {
	n := int(s.calls.Add(1)) - 1
	if s.err != nil {
		return nil, s.err
	}
	if n >= len(s.words) {
		return nil, remote.ErrNoWord
	}
	return &remote.RandomWord{Word: s.words[n]}, nil
}

type stubDictionary struct{}

func (stubDictionary) Lookup(_ context.Context, word string) ([]remote.Entry, error) {
	if word == "unknown" {
		return nil, remote.ErrNoWord
	}
	return []remote.Entry{{Word: strings.ToLower(word)}}, nil
}

func localWords(n int) []models.Word {
	words := make([]models.Word, n)
	for i := range words {
		words[i] = models.Word{
			ID:         "local-" + string(rune('a'+i)),
			SourceText: "слово",
			TargetText: "word-" + string(rune('a'+i)),
			Level:      models.Beginner,
		}
	}
	return words
}

func TestGetWordsForTestEnoughLocalWords(t *testing.T) {
	store := &memoryStore{words: localWords(12)}
	source := &stubSource{}
	supplier := NewSupplier(store, source, nil, 2)

	words, err := supplier.GetWordsForTest(context.Background(), models.Beginner, 10)
	require.NoError(t, err)
	assert.Len(t, words, 10)
	assert.Zero(t, source.calls.Load())
	assert.Len(t, store.words, 12)
}

func TestGetWordsForTestFailingRemoteTopsUpFromBuiltIns(t *testing.T) {
	store := &memoryStore{words: localWords(4)}
	source := &stubSource{err: errors.New("connection refused")}
	supplier := NewSupplier(store, source, nil, 3)

	words, err := supplier.GetWordsForTest(context.Background(), models.Beginner, 10)
	require.NoError(t, err)
	require.Len(t, words, 10)
	assert.Equal(t, int32(6), source.calls.Load())

	var local int
	targets := map[string]bool{}
	for _, w := range words {
		assert.Equal(t, models.Beginner, w.Level)
		assert.False(t, w.IsLearned)
		assert.False(t, targets[w.TargetText], "duplicate %s", w.TargetText)
		targets[w.TargetText] = true
		if strings.HasPrefix(w.ID, "local-") {
			local++
		}
	}
	assert.Equal(t, 4, local)
	assert.Len(t, store.words, 10)
}

func TestGetWordsForTestUsesRemoteWords(t *testing.T) {
	store := &memoryStore{words: localWords(2)}
	source := &stubSource{words: []string{"Apple", "word-a", "unknown", "apple"}}
	supplier := NewSupplier(store, source, stubDictionary{}, 2)

	words, err := supplier.GetWordsForTest(context.Background(), models.Beginner, 6)
	require.NoError(t, err)

	// two local words plus "apple" and "unknown"; duplicates are dropped
	require.Len(t, words, 4)
	byTarget := map[string]models.Word{}
	for _, w := range words {
		byTarget[w.TargetText] = w
	}
	require.Contains(t, byTarget, "apple")
	assert.Equal(t, "яблоко", byTarget["apple"].SourceText)
	require.Contains(t, byTarget, "unknown")
	assert.Equal(t, "unknown (перевод отсутствует)", byTarget["unknown"].SourceText)
	assert.Len(t, store.words, 4)
}

func TestGetWordsForTestTopsUpAfterEverythingIsLearned(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	_, err := Seed(ctx, store)
	require.NoError(t, err)
	supplier := NewSupplier(store, &stubSource{err: errors.New("service unavailable")}, nil, 2)

	for session := 1; session <= 5; session++ {
		words, err := supplier.GetWordsForTest(ctx, models.Beginner, 10)
		require.NoError(t, err)
		require.Len(t, words, 10, "session %d", session)

		targets := map[string]bool{}
		for _, w := range words {
			key := strings.ToLower(w.TargetText)
			assert.False(t, targets[key], "duplicate %s in session %d", w.TargetText, session)
			targets[key] = true
		}
		store.learn(words)
	}
}

func TestGetWordsForTestIgnoresLearnedBuiltIns(t *testing.T) {
	store := &memoryStore{words: localWords(4)}
	for _, p := range fallbackWords[models.Beginner] {
		store.words = append(store.words, models.Word{ID: "learned-" + p.target, TargetText: p.target, Level: models.Beginner, IsLearned: true})
	}
	supplier := NewSupplier(store, nil, nil, 1)

	words, err := supplier.GetWordsForTest(context.Background(), models.Beginner, 10)
	require.NoError(t, err)
	assert.Len(t, words, 10)
	for _, w := range words {
		assert.False(t, w.IsLearned)
	}

	words, err = supplier.GetWordsForTest(context.Background(), models.Beginner, 0)
	require.NoError(t, err)
	assert.Empty(t, words)
}

type slowDictionary struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (d *slowDictionary) Lookup(ctx context.Context, word string) ([]remote.Entry, error) {
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		peak := d.peak.Load()
		if n <= peak || d.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	select {
	case <-d.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []remote.Entry{{Word: word}}, nil
}

func TestGetWordsForTestLooksUpWordsConcurrently(t *testing.T) {
	store := &memoryStore{}
	source := &stubSource{words: []string{"apple", "river", "cloud", "stone"}}
	dictionary := &slowDictionary{release: make(chan struct{})}
	supplier := NewSupplier(store, source, dictionary, 2)

	done := make(chan []models.Word, 1)
	go func() {
		words, _ := supplier.GetWordsForTest(context.Background(), models.Beginner, 4)
		done <- words
	}()

	require.Eventually(t, func() bool { return dictionary.inFlight.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(dictionary.release)

	select {
	case words := <-done:
		assert.Len(t, words, 4)
	case <-time.After(time.Second):
		t.Fatal("supplier did not return")
	}
	assert.Equal(t, int32(2), dictionary.peak.Load())
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "дом", Translate(" House "))
	assert.Equal(t, "zebra (перевод отсутствует)", Translate("zebra"))
}

func TestSeed(t *testing.T) {
	store := &memoryStore{}

	n, err := Seed(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 60, n)

	for _, level := range models.Levels {
		count, _ := store.CountByLevel(context.Background(), level)
		assert.Equal(t, 20, count, level)
	}

	n, err = Seed(context.Background(), store)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.words, 60)
}
