package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind6482/WordWise/pkg/models"
)

type fakeSource struct {
	words []models.Word
	err   error
}

func (f fakeSource) WordsToReview(context.Context) ([]models.Word, error) {
	return f.words, f.err
}

type fakeNotifier struct {
	calls int
	words []models.Word
	total int
}

func (f *fakeNotifier) SendRepetitionReminder(_ context.Context, words []models.Word, total int) error {
	f.calls++
	f.words = words
	f.total = total
	return nil
}

func reviewWords(n int) []models.Word {
	words := make([]models.Word, n)
	for i := range words {
		words[i] = models.Word{ID: fmt.Sprint(i), TargetText: fmt.Sprintf("word%d", i), IsLearned: true, NeedsRepetition: true}
	}
	return words
}

func TestRunManualCheck(t *testing.T) {
	tests := []struct {
		name      string
		words     int
		wantCalls int
		wantSent  int
	}{
		{name: "nothing to review", words: 0, wantCalls: 0},
		{name: "few words", words: 3, wantCalls: 1, wantSent: 3},
		{name: "capped", words: 14, wantCalls: 1, wantSent: MaxReminderWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			s := New(fakeSource{words: reviewWords(tt.words)}, notifier, 9)

			require.NoError(t, s.RunManualCheck(context.Background()))
			assert.Equal(t, tt.wantCalls, notifier.calls)
			assert.Len(t, notifier.words, tt.wantSent)
			if tt.wantCalls > 0 {
				assert.Equal(t, tt.words, notifier.total)
			}
		})
	}
}

func TestRunManualCheckSourceError(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(fakeSource{err: errors.New("no connection")}, notifier, 9)

	assert.Error(t, s.RunManualCheck(context.Background()))
	assert.Zero(t, notifier.calls)
}

func TestStartStop(t *testing.T) {
	s := New(fakeSource{}, &fakeNotifier{}, 21)
	require.NoError(t, s.Start())
	s.Stop()
}
