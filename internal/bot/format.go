package bot

import (
	"fmt"
	"strings"

	"github.com/mastermind6482/WordWise/internal/excel"
	"github.com/mastermind6482/WordWise/internal/progress"
	"github.com/mastermind6482/WordWise/internal/quiz"
	"github.com/mastermind6482/WordWise/pkg/models"
)

const helpText = `WordWise helps you learn English words.

/test - take a test at your level
/words [query] - learned words, tap one to mark it for repetition
/stats - your progress
/settings - level, theme, words per test, reset
/import - upload a CSV or XLSX word list
/help - this message`

func formatQuestion(s quiz.Snapshot) string {
	return fmt.Sprintf("Question %d/%d\n\nHow do you say «%s» in English?", s.Index+1, s.Total, s.Word.SourceText)
}

func formatVerdict(s quiz.Snapshot, correct bool) string {
	verdict := "❌ Wrong."
	if correct {
		verdict = "✅ Correct!"
	}
	return fmt.Sprintf("Question %d/%d\n\n%s %s — %s", s.Index+1, s.Total, verdict, s.Word.SourceText, s.Word.TargetText)
}

func formatResult(s quiz.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("🏁 Test completed!\n\n")

	if s.Result != nil {
		sb.WriteString(fmt.Sprintf("Score: %d/%d (%.0f%%)\n", s.Result.CorrectAnswers, s.Result.TotalQuestions, s.Result.Score()*100))
	}

	if len(s.IncorrectWords) > 0 {
		sb.WriteString("\nWords to practise:\n")
		for _, w := range s.IncorrectWords {
			sb.WriteString(fmt.Sprintf("• %s — %s\n", w.SourceText, w.TargetText))
		}
	}

	if s.Err != nil {
		sb.WriteString("\n⚠️ Results could not be fully saved.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSummary(s *progress.Summary) string {
	if s.User == nil {
		return "No profile yet. Send /start to create one."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 %s, level %s\n\n", s.User.Name, s.User.Level.Title()))
	sb.WriteString(fmt.Sprintf("Progress: %.0f%% (%d of %d answers correct)\n", s.Progress*100, s.User.CorrectAnswers, s.User.TotalAnswers))
	sb.WriteString(fmt.Sprintf("Words learned: %d\n", s.LearnedCount))
	sb.WriteString(fmt.Sprintf("Words to review: %d\n", s.ReviewCount))
	sb.WriteString(fmt.Sprintf("Tests taken: %d, average score %.0f%%\n", s.Tests.TotalTests, s.Tests.AvgScore*100))

	if len(s.RecentResults) > 0 {
		sb.WriteString("\nRecent tests:\n")
		for _, r := range s.RecentResults {
			sb.WriteString(fmt.Sprintf("• %s — %d/%d\n", r.Time().Format("2006-01-02 15:04"), r.CorrectAnswers, r.TotalQuestions))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatLearnedWords(words []models.Word, query string, limit int) string {
	if len(words) == 0 {
		if query != "" {
			return fmt.Sprintf("No learned words match %q.", query)
		}
		return "You have not learned any words yet. Take a /test to start."
	}

	text := fmt.Sprintf("📚 Learned words: %d", len(words))
	if query != "" {
		text = fmt.Sprintf("📚 Learned words matching %q: %d", query, len(words))
	}
	if len(words) > limit {
		text += fmt.Sprintf("\nShowing the first %d. Use /words <query> to search.", limit)
	}
	return text + "\n\nTap a word to toggle repetition 🔁."
}

func formatReminder(words []models.Word, total int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔁 Time to review! %d word(s) are waiting for repetition:\n\n", total))
	for _, w := range words {
		sb.WriteString(fmt.Sprintf("• %s — %s\n", w.TargetText, w.SourceText))
	}
	if total > len(words) {
		sb.WriteString(fmt.Sprintf("…and %d more.\n", total-len(words)))
	}
	sb.WriteString("\nUse /words to manage them.")
	return sb.String()
}

func formatImportResult(r *excel.ImportResult) string {
	var sb strings.Builder
	sb.WriteString("📥 Import finished\n\n")
	sb.WriteString(fmt.Sprintf("Rows processed: %d\n", r.TotalProcessed))
	sb.WriteString(fmt.Sprintf("Words added: %d\n", r.Created))
	sb.WriteString(fmt.Sprintf("Duplicates skipped: %d\n", r.Skipped))

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors: %d\n", len(r.Errors)))
		for i, e := range r.Errors {
			if i == 5 {
				sb.WriteString("…\n")
				break
			}
			sb.WriteString(e + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSettings(level models.Level, theme string, wordsPerTest int) string {
	return fmt.Sprintf("⚙️ Settings\n\nLevel: %s\nTheme: %s\nWords per test: %d", level.Title(), theme, wordsPerTest)
}
