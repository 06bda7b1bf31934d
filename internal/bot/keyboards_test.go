package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind6482/WordWise/internal/excel"
	"github.com/mastermind6482/WordWise/internal/quiz"
	"github.com/mastermind6482/WordWise/pkg/models"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data       string
		wantAction string
		wantArg    string
	}{
		{data: "restart", wantAction: "restart"},
		{data: "answer:2", wantAction: "answer", wantArg: "2"},
		{data: "rep:abc:true", wantAction: "rep", wantArg: "abc:true"},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action, arg := parseCallback(tt.data)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestParseRepetitionArg(t *testing.T) {
	id, flag, err := parseRepetitionArg("0b5e-41:false")
	require.NoError(t, err)
	assert.Equal(t, "0b5e-41", id)
	assert.False(t, flag)

	_, _, err = parseRepetitionArg("noflag")
	assert.Error(t, err)

	_, _, err = parseRepetitionArg("id:maybe")
	assert.Error(t, err)
}

func TestSettingsButtonsMarkCurrentValues(t *testing.T) {
	rows := settingsButtons(models.Intermediate, "dark", 15)
	require.Len(t, rows, 6)

	assert.Equal(t, "✓ Intermediate", rows[1][0].Text)
	assert.Equal(t, "level:INTERMEDIATE", rows[1][0].CallbackData)
	assert.Equal(t, "✓ Dark", rows[3][2].Text)
	assert.Equal(t, "✓ 15", rows[4][2].Text)
	assert.Equal(t, "reset:ask", rows[5][0].CallbackData)
}

func TestOptionButtons(t *testing.T) {
	rows := optionButtons([]string{"cat", "dog"})
	require.Len(t, rows, 2)
	assert.Equal(t, "dog", rows[1][0].Text)
	assert.Equal(t, "answer:1", rows[1][0].CallbackData)

	kb := createKeyboard(rows)
	assert.Len(t, kb.InlineKeyboard, 2)
}

func TestFormatResult(t *testing.T) {
	snap := quiz.Snapshot{
		State:          quiz.Completed,
		CorrectCount:   3,
		IncorrectWords: []models.Word{{SourceText: "дом", TargetText: "house"}},
		Result:         &models.TestResult{CorrectAnswers: 3, TotalQuestions: 4},
	}

	text := formatResult(snap)
	assert.Contains(t, text, "Score: 3/4 (75%)")
	assert.Contains(t, text, "• дом — house")
	assert.NotContains(t, text, "could not be fully saved")

	snap.Err = &quiz.PersistenceError{Step: "save result"}
	assert.Contains(t, formatResult(snap), "could not be fully saved")
}

func TestFormatQuestionAndVerdict(t *testing.T) {
	snap := quiz.Snapshot{
		Index: 1,
		Total: 5,
		Word:  &models.Word{SourceText: "кошка", TargetText: "cat"},
	}
	assert.Equal(t, "Question 2/5\n\nHow do you say «кошка» in English?", formatQuestion(snap))
	assert.Contains(t, formatVerdict(snap, false), "❌ Wrong. кошка — cat")
}

func TestFormatImportResult(t *testing.T) {
	text := formatImportResult(&excel.ImportResult{
		TotalProcessed: 8,
		Created:        5,
		Skipped:        1,
		Errors:         []string{"Row 3: word cannot be empty", "Row 7: unknown level \"X\""},
	})
	assert.Contains(t, text, "Words added: 5")
	assert.Contains(t, text, "Errors: 2")
	assert.Contains(t, text, "Row 7")
}
