package progress

import (
	"context"
	"fmt"

	"github.com/mastermind6482/WordWise/internal/database"
	"github.com/mastermind6482/WordWise/pkg/models"
)

// Summary is the learner's dashboard
type Summary struct {
	User          *models.User
	LearnedCount  int
	ReviewCount   int
	Progress      float64
	Tests         database.TestStats
	RecentResults []models.TestResult
}

// Summary collects the dashboard data. User is nil before onboarding.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	user, err := s.users.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get summary user: %w", err)
	}

	learned, err := s.words.GetLearned(ctx)
	if err != nil {
		return nil, fmt.Errorf("get summary learned words: %w", err)
	}

	stats, err := s.results.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get summary test stats: %w", err)
	}

	recent, err := s.results.GetRecent(ctx, recentResultsLimit)
	if err != nil {
		return nil, fmt.Errorf("get summary recent results: %w", err)
	}

	summary := &Summary{
		User:          user,
		LearnedCount:  len(learned),
		ReviewCount:   len(wordsToReview(learned)),
		Tests:         *stats,
		RecentResults: recent,
	}
	if user != nil {
		summary.Progress = user.ProgressPercentage()
	}
	return summary, nil
}
