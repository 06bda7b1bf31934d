package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// DefaultWordCount is the number of words in a test when none is configured
const DefaultWordCount = 10

// WordSupplier provides the words of a test
type WordSupplier interface {
	GetWordsForTest(ctx context.Context, level models.Level, count int) ([]models.Word, error)
}

// Recorder persists a completed session. result carries the score and incorrect
// words; the recorder assigns its id and timestamp.
type Recorder interface {
	RecordSession(ctx context.Context, words []models.Word, result *models.TestResult) error
}

type observer struct {
	id int
	fn func(Snapshot)
}

// Session drives one test at a time: words are presented in order, each answer is
// selected, graded and advanced, and the results are recorded when the last word
// is done. Methods are safe to call from several goroutines; a start that
// resolves after a newer start is discarded.
type Session struct {
	supplier WordSupplier
	recorder Recorder

	mu         sync.Mutex
	generation uint64
	state      State
	level      models.Level
	count      int

	words      []models.Word
	index      int
	options    []string
	selected   int
	lastResult *bool
	correct    int
	incorrect  []models.Word

	result *models.TestResult
	err    error

	observers    []observer
	nextObserver int
	notifySeq    uint64

	// deliveryMu orders observer calls; delivered is the newest delivered notifySeq
	deliveryMu sync.Mutex
	delivered  uint64
}

// NewSession creates an idle session
func NewSession(supplier WordSupplier, recorder Recorder) *Session {
	return &Session{
		supplier: supplier,
		recorder: recorder,
		selected: -1,
	}
}

// Subscribe registers fn to receive a snapshot after state changes and returns a
// function that removes it. Snapshots arrive in the order the changes happened;
// when changes race, an older snapshot that loses to a newer one is skipped, so
// the last snapshot delivered is always the current state. fn must not block or
// change the session.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Start loads count words of level and presents the first one. It fails with
// ErrNoWordsAvailable when the supplier returns nothing.
func (s *Session) Start(ctx context.Context, level models.Level, count int) error {
	gen := s.begin(level, count)
	return s.load(ctx, gen, level, count)
}

// StartAsync starts a session in the background. The session is Loading when
// StartAsync returns; the channel receives the result of the start.
func (s *Session) StartAsync(ctx context.Context, level models.Level, count int) <-chan error {
	gen := s.begin(level, count)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.load(ctx, gen, level, count)
	}()
	return done
}

// Restart starts a new session with the level and count of the previous one
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	level, count := s.level, s.count
	s.mu.Unlock()

	if count <= 0 {
		return ErrNotInProgress
	}
	return s.Start(ctx, level, count)
}

// RestartAsync is Restart in the background, with the channel semantics of
// StartAsync
func (s *Session) RestartAsync(ctx context.Context) <-chan error {
	s.mu.Lock()
	level, count := s.level, s.count
	s.mu.Unlock()

	if count <= 0 {
		done := make(chan error, 1)
		done <- ErrNotInProgress
		close(done)
		return done
	}
	return s.StartAsync(ctx, level, count)
}

func (s *Session) begin(level models.Level, count int) uint64 {
	if count <= 0 {
		count = DefaultWordCount
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.reset()
	s.state = Loading
	s.level = level
	s.count = count
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return gen
}

func (s *Session) load(ctx context.Context, gen uint64, level models.Level, count int) error {
	if count <= 0 {
		count = DefaultWordCount
	}
	words, err := s.supplier.GetWordsForTest(ctx, level, count)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return ErrSuperseded
	}

	switch {
	case err != nil:
		err = fmt.Errorf("load words (level: %s, count: %d): %w", level, count, err)
		s.state = Failed
		s.err = err
	case len(words) == 0:
		err = ErrNoWordsAvailable
		s.state = Failed
		s.err = err
	default:
		s.words = append([]models.Word(nil), words...)
		s.index = 0
		s.options = BuildOptions(s.words[0], s.words)
		s.state = AwaitingSelection
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return err
}

// Select records the chosen option for the current word. Selecting again before
// grading replaces the choice.
func (s *Session) Select(index int) error {
	s.mu.Lock()
	err := s.selectLocked(index)
	notify := s.notifyLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	notify()
	return nil
}

// Grade compares the selected option with the current word's target text
func (s *Session) Grade() (bool, error) {
	s.mu.Lock()
	correct, err := s.gradeLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	notify()
	return correct, nil
}

// Answer selects index and grades it
func (s *Session) Answer(index int) (bool, error) {
	s.mu.Lock()
	err := s.selectLocked(index)
	var correct bool
	if err == nil {
		correct, err = s.gradeLocked()
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	notify()
	return correct, nil
}

func (s *Session) selectLocked(index int) error {
	switch s.state {
	case AwaitingSelection:
	case Graded:
		return ErrAlreadyGraded
	default:
		return ErrNotInProgress
	}
	if index < 0 || index >= len(s.options) {
		return fmt.Errorf("select option (index: %d, options: %d): %w", index, len(s.options), ErrInvalidOption)
	}
	s.selected = index
	return nil
}

func (s *Session) gradeLocked() (bool, error) {
	switch s.state {
	case AwaitingSelection:
	case Graded:
		return false, ErrAlreadyGraded
	default:
		return false, ErrNotInProgress
	}
	if s.selected < 0 {
		return false, ErrNoSelection
	}

	word := s.words[s.index]
	correct := s.options[s.selected] == word.TargetText
	if correct {
		s.correct++
	} else {
		s.incorrect = append(s.incorrect, word)
	}
	s.lastResult = &correct
	s.state = Graded
	return correct, nil
}

// Advance moves to the next word. After the last word the session completes and
// the results are recorded; a recording failure is returned as a
// *PersistenceError while the session stays Completed.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case Graded:
	case AwaitingSelection:
		s.mu.Unlock()
		return ErrNotGraded
	default:
		s.mu.Unlock()
		return ErrNotInProgress
	}

	if s.index+1 < len(s.words) {
		s.index++
		s.options = BuildOptions(s.words[s.index], s.words)
		s.selected = -1
		s.lastResult = nil
		s.state = AwaitingSelection
		notify := s.notifyLocked()
		s.mu.Unlock()

		notify()
		return nil
	}

	s.state = Completed
	s.selected = -1
	s.lastResult = nil
	gen := s.generation
	words := append([]models.Word(nil), s.words...)
	result := &models.TestResult{
		CorrectAnswers: s.correct,
		TotalQuestions: len(s.words),
		IncorrectWords: append([]models.Word(nil), s.incorrect...),
	}
	s.result = result
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return s.finalize(ctx, gen, words, *result)
}

func (s *Session) finalize(ctx context.Context, gen uint64, words []models.Word, result models.TestResult) error {
	err := s.recorder.RecordSession(ctx, words, &result)
	if err != nil {
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			perr = &PersistenceError{Step: "record", Err: err}
		}
		err = perr
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return err
	}
	s.result = &result
	s.err = err
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return err
}

func (s *Session) reset() {
	s.words = nil
	s.index = 0
	s.options = nil
	s.selected = -1
	s.lastResult = nil
	s.correct = 0
	s.incorrect = nil
	s.result = nil
	s.err = nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:          s.state,
		Level:          s.level,
		Index:          s.index,
		Total:          len(s.words),
		Options:        append([]string(nil), s.options...),
		Selected:       s.selected,
		CorrectCount:   s.correct,
		IncorrectWords: append([]models.Word(nil), s.incorrect...),
		Err:            s.err,
	}
	if s.state.InProgress() {
		word := s.words[s.index]
		snap.Word = &word
	}
	if s.lastResult != nil {
		v := *s.lastResult
		snap.LastResult = &v
	}
	if s.result != nil {
		r := *s.result
		r.IncorrectWords = append([]models.Word(nil), s.result.IncorrectWords...)
		snap.Result = &r
	}
	return snap
}

// notifyLocked captures the state and the observers; the returned function
// delivers the snapshot and must be called without holding the lock
func (s *Session) notifyLocked() func() {
	if len(s.observers) == 0 {
		return func() {}
	}
	s.notifySeq++
	seq := s.notifySeq
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), len(s.observers))
	for i, o := range s.observers {
		fns[i] = o.fn
	}
	return func() {
		s.deliveryMu.Lock()
		defer s.deliveryMu.Unlock()
		if seq <= s.delivered {
			return
		}
		s.delivered = seq
		for _, fn := range fns {
			fn(snap)
		}
	}
}
