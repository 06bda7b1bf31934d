package words

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mastermind6482/WordWise/internal/remote"
	"github.com/mastermind6482/WordWise/pkg/models"
)

// Store is the part of the word store the supplier reads and fills
type Store interface {
	GetByLevel(ctx context.Context, level models.Level) ([]models.Word, error)
	GetRandomByLevel(ctx context.Context, level models.Level, count int) ([]models.Word, error)
	Insert(ctx context.Context, words []models.Word) error
}

// RandomWordSource returns one random English word for a level
type RandomWordSource interface {
	RandomWord(ctx context.Context, level models.Level) (*remote.RandomWord, error)
}

// Dictionary looks up English words
type Dictionary interface {
	Lookup(ctx context.Context, word string) ([]remote.Entry, error)
}

// Supplier selects words for a test, replenishing the store when it runs short
type Supplier struct {
	store       Store
	source      RandomWordSource
	dictionary  Dictionary
	concurrency int
}

// NewSupplier creates a supplier. source and dictionary may be nil, in which case
// shortages are met from the built-in lists only.
func NewSupplier(store Store, source RandomWordSource, dictionary Dictionary, concurrency int) *Supplier {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Supplier{
		store:       store,
		source:      source,
		dictionary:  dictionary,
		concurrency: concurrency,
	}
}

// GetWordsForTest returns up to count unlearned words of the level in random
// order. Local words come first. The shortfall is fetched from the remote source,
// or taken from the built-in list when the remote yields nothing. New words are
// stored before they are returned. Remote failures are never returned.
func (s *Supplier) GetWordsForTest(ctx context.Context, level models.Level, count int) ([]models.Word, error) {
	if count <= 0 {
		return nil, nil
	}

	local, err := s.store.GetRandomByLevel(ctx, level, count)
	if err != nil {
		return nil, fmt.Errorf("get local words (level: %s): %w", level, err)
	}
	if len(local) >= count {
		return local[:count], nil
	}

	stored, err := s.store.GetByLevel(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("get stored words (level: %s): %w", level, err)
	}
	known := make(map[string]bool, len(stored)+len(local))
	for _, w := range stored {
		known[normalize(w.TargetText)] = true
	}
	batch := make(map[string]bool, count)
	for _, w := range local {
		known[normalize(w.TargetText)] = true
		batch[normalize(w.TargetText)] = true
	}

	shortfall := count - len(local)
	fresh := s.fetchRemote(ctx, level, shortfall, known)
	if len(fresh) == 0 {
		// learned rows do not block the built-in list, only words already in this test
		fresh = fallback(level, shortfall, batch)
		zap.S().Infow("Using built-in words",
			"level", level,
			"shortfall", shortfall,
			"added", len(fresh),
		)
	}

	if len(fresh) > 0 {
		if err := s.store.Insert(ctx, fresh); err != nil {
			return nil, fmt.Errorf("store new words (level: %s, count: %d): %w", level, len(fresh), err)
		}
	}

	all := append(local, fresh...)
	rand.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	if len(all) > count {
		all = all[:count]
	}
	return all, nil
}

// fetchRemote makes exactly n single-word requests with bounded concurrency and
// returns the words that are not already known. Each worker also resolves the
// dictionary spelling of its word.
func (s *Supplier) fetchRemote(ctx context.Context, level models.Level, n int, known map[string]bool) []models.Word {
	if s.source == nil || n <= 0 {
		return nil
	}

	fetched := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			word, err := s.source.RandomWord(gctx, level)
			if err != nil {
				zap.S().Warnw("Remote word fetch failed", "level", level, "error", err)
				return nil
			}
			fetched[i] = s.canonicalSpelling(gctx, word.Word)
			return nil
		})
	}
	_ = g.Wait()

	var words []models.Word
	for _, target := range fetched {
		key := normalize(target)
		if key == "" || known[key] {
			continue
		}
		known[key] = true
		words = append(words, newWord(level, pair{source: Translate(target), target: target}))
	}
	return words
}

// canonicalSpelling returns the dictionary headword for word, or word itself when
// the lookup fails
func (s *Supplier) canonicalSpelling(ctx context.Context, word string) string {
	word = strings.TrimSpace(word)
	if s.dictionary == nil {
		return word
	}

	entries, err := s.dictionary.Lookup(ctx, word)
	if err != nil {
		zap.S().Debugw("Dictionary lookup failed", "word", word, "error", err)
		return word
	}
	if len(entries) > 0 && strings.TrimSpace(entries[0].Word) != "" {
		return strings.TrimSpace(entries[0].Word)
	}
	return word
}
