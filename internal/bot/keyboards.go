package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mastermind6482/WordWise/internal/database"
	"github.com/mastermind6482/WordWise/pkg/models"
)

// Callback actions. Callback data has the form "action" or "action:arg".
const (
	actionMenu       = "menu"
	actionAnswer     = "answer"
	actionRestart    = "restart"
	actionOnboard    = "onboard"
	actionLevel      = "level"
	actionTheme      = "theme"
	actionWords      = "wpt"
	actionReset      = "reset"
	actionRepetition = "rep"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

func callbackData(action string, args ...string) string {
	return strings.Join(append([]string{action}, args...), ":")
}

// parseCallback splits callback data into its action and argument
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// parseRepetitionArg decodes "<word id>:<0|1>"
func parseRepetitionArg(arg string) (id string, flag bool, err error) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 {
		return "", false, fmt.Errorf("malformed repetition callback: %q", arg)
	}
	flag, err = strconv.ParseBool(arg[idx+1:])
	if err != nil {
		return "", false, fmt.Errorf("malformed repetition flag: %q", arg)
	}
	return arg[:idx], flag, nil
}

func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📝 Take a test", CallbackData: callbackData(actionMenu, "test")},
			{Text: "📚 Learned words", CallbackData: callbackData(actionMenu, "words")},
		},
		{
			{Text: "📊 Statistics", CallbackData: callbackData(actionMenu, "stats")},
			{Text: "⚙️ Settings", CallbackData: callbackData(actionMenu, "settings")},
		},
	}
}

func levelButtons(action string, current models.Level) [][]MenuButton {
	var rows [][]MenuButton
	for _, level := range models.Levels {
		text := level.Title()
		if level == current {
			text = "✓ " + text
		}
		rows = append(rows, []MenuButton{{Text: text, CallbackData: callbackData(action, string(level))}})
	}
	return rows
}

func optionButtons(options []string) [][]MenuButton {
	rows := make([][]MenuButton, 0, len(options))
	for i, option := range options {
		rows = append(rows, []MenuButton{{Text: option, CallbackData: callbackData(actionAnswer, strconv.Itoa(i))}})
	}
	return rows
}

func resultButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔄 Try again", CallbackData: actionRestart},
			{Text: "🏠 Menu", CallbackData: callbackData(actionMenu, "main")},
		},
	}
}

func settingsButtons(level models.Level, theme string, wordsPerTest int) [][]MenuButton {
	rows := levelButtons(actionLevel, level)

	var themes []MenuButton
	for _, t := range database.Themes {
		text := strings.ToUpper(t[:1]) + t[1:]
		if t == theme {
			text = "✓ " + text
		}
		themes = append(themes, MenuButton{Text: text, CallbackData: callbackData(actionTheme, t)})
	}
	rows = append(rows, themes)

	var counts []MenuButton
	for _, n := range WordsPerTestChoices {
		text := strconv.Itoa(n)
		if n == wordsPerTest {
			text = "✓ " + text
		}
		counts = append(counts, MenuButton{Text: text, CallbackData: callbackData(actionWords, strconv.Itoa(n))})
	}
	rows = append(rows, counts)

	rows = append(rows, []MenuButton{{Text: "🗑 Reset progress", CallbackData: callbackData(actionReset, "ask")}})
	return rows
}

func resetConfirmButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "Yes, reset", CallbackData: callbackData(actionReset, "yes")},
			{Text: "Cancel", CallbackData: callbackData(actionReset, "no")},
		},
	}
}

// repetitionButtons toggle the repetition flag of each listed word
func repetitionButtons(words []models.Word) [][]MenuButton {
	rows := make([][]MenuButton, 0, len(words))
	for _, w := range words {
		mark := "☐"
		if w.NeedsRepetition {
			mark = "🔁"
		}
		rows = append(rows, []MenuButton{{
			Text:         fmt.Sprintf("%s %s — %s", mark, w.TargetText, w.SourceText),
			CallbackData: callbackData(actionRepetition, w.ID, strconv.FormatBool(!w.NeedsRepetition)),
		}})
	}
	return rows
}
