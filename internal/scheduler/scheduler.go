package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/mastermind6482/WordWise/pkg/models"
)

// MaxReminderWords caps the words listed in one reminder
const MaxReminderWords = 10

// ReviewSource lists learned words flagged for repetition
type ReviewSource interface {
	WordsToReview(ctx context.Context) ([]models.Word, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendRepetitionReminder(ctx context.Context, words []models.Word, total int) error
}

// Scheduler runs the daily repetition reminder
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    ReviewSource
	notifier  Notifier
	hour      int
	timeout   time.Duration
}

// New creates a new scheduler that fires every day at hour (local time)
func New(source ReviewSource, notifier Notifier, hour int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		source:    source,
		notifier:  notifier,
		hour:      hour,
		timeout:   time.Minute,
	}
}

// Start registers the reminder job and runs the scheduler in the background
func (s *Scheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.hour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.sendReminder); err != nil {
		return fmt.Errorf("schedule reminder (at: %s): %w", at, err)
	}

	s.scheduler.StartAsync()
	zap.S().Infow("Reminder scheduler started", "at", at)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sendReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.RunManualCheck(ctx); err != nil {
		zap.S().Errorw("Failed to send repetition reminder", "error", err)
	}
}

// RunManualCheck sends a reminder right away if any word needs repetition
func (s *Scheduler) RunManualCheck(ctx context.Context) error {
	words, err := s.source.WordsToReview(ctx)
	if err != nil {
		return fmt.Errorf("get words to review: %w", err)
	}
	if len(words) == 0 {
		zap.S().Debugw("No words to review, skipping reminder")
		return nil
	}

	total := len(words)
	if len(words) > MaxReminderWords {
		words = words[:MaxReminderWords]
	}
	if err := s.notifier.SendRepetitionReminder(ctx, words, total); err != nil {
		return fmt.Errorf("send repetition reminder (words: %d): %w", total, err)
	}
	return nil
}
