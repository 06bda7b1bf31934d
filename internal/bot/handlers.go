package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mastermind6482/WordWise/internal/database"
	"github.com/mastermind6482/WordWise/internal/excel"
	"github.com/mastermind6482/WordWise/internal/progress"
	"github.com/mastermind6482/WordWise/internal/quiz"
	"github.com/mastermind6482/WordWise/pkg/models"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var chatID int64
	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID = update.CallbackQuery.Message.Chat.ID
	default:
		return
	}

	allowed, err := b.authorize(ctx, chatID)
	if err != nil {
		b.sendError(chatID, "authorize", err)
		return
	}
	if !allowed {
		zap.S().Warnw("Rejected update from foreign chat", "chat_id", chatID)
		if update.CallbackQuery != nil {
			b.answerCallback(update.CallbackQuery, "")
		}
		b.send(chatID, "Sorry, this bot serves a single learner.", nil)
		return
	}

	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
		return
	}
	b.handleCallback(ctx, update.CallbackQuery)
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	switch b.getState() {
	case stateAwaitingName:
		b.handleName(ctx, chatID, message.Text)
	case stateAwaitingFile:
		if message.Document == nil {
			b.send(chatID, "Please send a .csv or .xlsx file, or /help to cancel.", nil)
			return
		}
		b.handleDocument(ctx, chatID, message.Document)
	case stateAwaitingLevel:
		b.send(chatID, "Please choose your level:", levelButtons(actionOnboard, ""))
	default:
		b.send(chatID, "I don't understand. Choose an option:", mainMenuButtons())
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()
	if command != "start" {
		b.setState(stateIdle)
	}

	switch command {
	case "start":
		b.handleStart(ctx, chatID)
	case "test":
		b.handleTest(ctx, chatID)
	case "words":
		b.handleWords(ctx, chatID, message.CommandArguments())
	case "stats":
		b.handleStats(ctx, chatID)
	case "settings":
		b.handleSettings(ctx, chatID)
	case "import":
		b.setState(stateAwaitingFile)
		b.send(chatID, "Send a word list as a document.\n\n"+
			"CSV rows: english,transcription,translation (a row with only BEGINNER, INTERMEDIATE or ADVANCED sets the level).\n"+
			"XLSX columns: A english, B translation, C level.", nil)
	case "help":
		b.send(chatID, helpText, mainMenuButtons())
	default:
		b.send(chatID, "Unknown command. Use /help to see what I can do.", nil)
	}
}

// handleStart greets a known user or begins onboarding
func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	user, err := b.deps.Progress.GetUser(ctx)
	if err != nil {
		b.sendError(chatID, "start", err)
		return
	}

	if user != nil {
		b.setState(stateIdle)
		b.send(chatID, fmt.Sprintf("Welcome back, %s! 🎓", user.Name), mainMenuButtons())
		return
	}

	b.setState(stateAwaitingName)
	b.send(chatID, "Welcome to WordWise! 🎓\n\nWhat is your name?", nil)
}

func (b *Bot) handleName(ctx context.Context, chatID int64, name string) {
	if err := progress.ValidateName(name); err != nil {
		b.send(chatID, "Please enter a name of at least 2 characters.", nil)
		return
	}

	b.mu.Lock()
	b.pendingName = strings.TrimSpace(name)
	b.state = stateAwaitingLevel
	b.mu.Unlock()

	b.send(chatID, "Nice to meet you! What is your English level?", levelButtons(actionOnboard, ""))
}

func (b *Bot) handleOnboardLevel(ctx context.Context, chatID int64, level models.Level) {
	b.mu.Lock()
	name, state := b.pendingName, b.state
	b.mu.Unlock()

	if state != stateAwaitingLevel {
		b.send(chatID, "Send /start to set up your profile.", nil)
		return
	}

	user, err := b.deps.Progress.CreateUser(ctx, name, level)
	if errors.Is(err, progress.ErrInvalidName) {
		b.setState(stateAwaitingName)
		b.send(chatID, "Please enter your name again.", nil)
		return
	}
	if err != nil {
		b.sendError(chatID, "create user", err)
		return
	}

	b.mu.Lock()
	b.pendingName = ""
	b.state = stateIdle
	b.mu.Unlock()

	zap.S().Infow("User onboarded", "name", user.Name, "level", user.Level)
	b.send(chatID, fmt.Sprintf("All set, %s! Your level is %s.", user.Name, user.Level.Title()), mainMenuButtons())
}

// handleTest starts a test at the user's level
func (b *Bot) handleTest(ctx context.Context, chatID int64) {
	user, err := b.deps.Progress.GetUser(ctx)
	if err != nil {
		b.sendError(chatID, "test", err)
		return
	}
	if user == nil {
		b.send(chatID, "Send /start to create your profile first.", nil)
		return
	}

	count, err := b.deps.Preferences.GetInt(ctx, database.PrefWordsPerTest, b.config.DefaultWordsPerTest)
	if err != nil {
		b.sendError(chatID, "test", err)
		return
	}

	b.send(chatID, "⏳ Preparing your test…", nil)
	b.awaitQuiz(chatID, b.deps.Quiz.StartAsync(ctx, user.Level, count))
}

// awaitQuiz sends the first question once the test has loaded. The update loop
// keeps running meanwhile; answers pressed during loading are rejected by the
// session.
func (b *Bot) awaitQuiz(chatID int64, done <-chan error) {
	b.loading.Add(1)
	go func() {
		defer b.loading.Done()

		err := <-done
		switch {
		case errors.Is(err, quiz.ErrSuperseded):
		case errors.Is(err, quiz.ErrNoWordsAvailable):
			b.send(chatID, "There are no new words at your level right now. Try another level in /settings.", mainMenuButtons())
		case err != nil:
			b.sendError(chatID, "start quiz", err)
		default:
			b.sendQuestion(chatID, b.deps.Quiz.Snapshot())
		}
	}()
}

func (b *Bot) sendQuestion(chatID int64, s quiz.Snapshot) {
	if s.Word == nil {
		return
	}
	b.send(chatID, formatQuestion(s), optionButtons(s.Options))
}

// handleAnswer grades the pressed option, shows the verdict and moves on
func (b *Bot) handleAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery, arg string) {
	chatID := callback.Message.Chat.ID

	index, err := strconv.Atoi(arg)
	if err != nil {
		b.answerCallback(callback, "")
		return
	}

	correct, err := b.deps.Quiz.Answer(index)
	if err != nil {
		b.answerCallback(callback, "This question is no longer active.")
		return
	}
	b.answerCallback(callback, "")

	graded := b.deps.Quiz.Snapshot()
	if graded.Word != nil {
		b.edit(chatID, callback.Message.MessageID, formatVerdict(graded, correct), nil)
	}

	err = b.deps.Quiz.Advance(ctx)
	var perr *quiz.PersistenceError
	if err != nil && !errors.As(err, &perr) {
		b.sendError(chatID, "advance quiz", err)
		return
	}
	if perr != nil {
		zap.S().Errorw("Failed to save test results", "step", perr.Step, "error", perr.Err)
	}

	next := b.deps.Quiz.Snapshot()
	if next.State == quiz.Completed {
		b.send(chatID, formatResult(next), resultButtons())
		return
	}
	b.sendQuestion(chatID, next)
}

func (b *Bot) handleWords(ctx context.Context, chatID int64, query string) {
	query = strings.TrimSpace(query)
	words, err := b.deps.Progress.LearnedWords(ctx, query)
	if err != nil {
		b.sendError(chatID, "words", err)
		return
	}

	listed := words
	if len(listed) > b.config.MaxListedWords {
		listed = listed[:b.config.MaxListedWords]
	}
	b.send(chatID, formatLearnedWords(words, query, b.config.MaxListedWords), repetitionButtons(listed))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	summary, err := b.deps.Progress.Summary(ctx)
	if err != nil {
		b.sendError(chatID, "stats", err)
		return
	}
	b.send(chatID, formatSummary(summary), mainMenuButtons())
}

func (b *Bot) handleSettings(ctx context.Context, chatID int64) {
	text, buttons, err := b.settingsView(ctx)
	if err != nil {
		b.sendError(chatID, "settings", err)
		return
	}
	b.send(chatID, text, buttons)
}

func (b *Bot) settingsView(ctx context.Context) (string, [][]MenuButton, error) {
	user, err := b.deps.Progress.GetUser(ctx)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "Send /start to create your profile first.", nil, nil
	}

	theme, err := b.deps.Preferences.Get(ctx, database.PrefTheme, database.ThemeSystem)
	if err != nil {
		return "", nil, err
	}
	wordsPerTest, err := b.deps.Preferences.GetInt(ctx, database.PrefWordsPerTest, b.config.DefaultWordsPerTest)
	if err != nil {
		return "", nil, err
	}
	return formatSettings(user.Level, theme, wordsPerTest), settingsButtons(user.Level, theme, wordsPerTest), nil
}

// refreshSettings re-renders the settings message after a change
func (b *Bot) refreshSettings(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	text, buttons, err := b.settingsView(ctx)
	if err != nil {
		b.sendError(callback.Message.Chat.ID, "settings", err)
		return
	}
	b.edit(callback.Message.Chat.ID, callback.Message.MessageID, text, buttons)
}

func (b *Bot) handleDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	format, err := excel.FormatFromName(doc.FileName)
	if err != nil {
		b.send(chatID, "Only .csv and .xlsx files are supported.", nil)
		return
	}
	b.setState(stateIdle)

	if int64(doc.FileSize) > b.config.MaxImportSize {
		b.send(chatID, fmt.Sprintf("The file is too large. The limit is %d MB.", b.config.MaxImportSize>>20), nil)
		return
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		b.sendError(chatID, "import", fmt.Errorf("get file url (file_id: %s): %w", doc.FileID, err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		b.sendError(chatID, "import", err)
		return
	}
	resp, err := b.deps.HTTPClient.Do(req)
	if err != nil {
		b.sendError(chatID, "import", fmt.Errorf("download file (name: %s): %w", doc.FileName, err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b.sendError(chatID, "import", fmt.Errorf("download file (name: %s, status: %d)", doc.FileName, resp.StatusCode))
		return
	}

	result, err := b.deps.Importer.Import(ctx, io.LimitReader(resp.Body, b.config.MaxImportSize), format)
	if err != nil {
		b.sendError(chatID, "import", err)
		return
	}

	zap.S().Infow("Word list imported",
		"file", doc.FileName,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	b.send(chatID, formatImportResult(result), mainMenuButtons())
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	action, arg := parseCallback(callback.Data)

	switch action {
	case actionAnswer:
		b.handleAnswer(ctx, callback, arg)
		return
	case actionRestart:
		b.answerCallback(callback, "")
		b.awaitQuiz(chatID, b.deps.Quiz.RestartAsync(ctx))
		return
	}

	b.answerCallback(callback, "")

	switch action {
	case actionMenu:
		b.setState(stateIdle)
		switch arg {
		case "test":
			b.handleTest(ctx, chatID)
		case "words":
			b.handleWords(ctx, chatID, "")
		case "stats":
			b.handleStats(ctx, chatID)
		case "settings":
			b.handleSettings(ctx, chatID)
		default:
			b.send(chatID, "Main menu - choose an option:", mainMenuButtons())
		}

	case actionOnboard:
		b.handleOnboardLevel(ctx, chatID, models.ParseLevel(arg))

	case actionLevel:
		if err := b.deps.Progress.UpdateLevel(ctx, models.ParseLevel(arg)); err != nil {
			b.sendError(chatID, "update level", err)
			return
		}
		b.refreshSettings(ctx, callback)

	case actionTheme:
		if !isTheme(arg) {
			return
		}
		if err := b.deps.Preferences.Set(ctx, database.PrefTheme, arg); err != nil {
			b.sendError(chatID, "set theme", err)
			return
		}
		b.refreshSettings(ctx, callback)

	case actionWords:
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return
		}
		if err := b.deps.Preferences.Set(ctx, database.PrefWordsPerTest, strconv.Itoa(n)); err != nil {
			b.sendError(chatID, "set words per test", err)
			return
		}
		b.refreshSettings(ctx, callback)

	case actionReset:
		b.handleReset(ctx, callback, arg)

	case actionRepetition:
		id, flag, err := parseRepetitionArg(arg)
		if err != nil {
			zap.S().Warnw("Bad repetition callback", "data", callback.Data, "error", err)
			return
		}
		if err := b.deps.Progress.ToggleRepetition(ctx, id, flag); err != nil {
			b.sendError(chatID, "toggle repetition", err)
			return
		}
		b.refreshWords(ctx, callback)

	default:
		zap.S().Warnw("Unknown callback", "data", callback.Data)
	}
}

func (b *Bot) handleReset(ctx context.Context, callback *tgbotapi.CallbackQuery, arg string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	switch arg {
	case "ask":
		b.edit(chatID, messageID, "Reset all progress? Learned words and statistics will be cleared.", resetConfirmButtons())
	case "yes":
		if err := b.deps.Progress.ResetProgress(ctx); err != nil {
			b.sendError(chatID, "reset progress", err)
			return
		}
		b.edit(chatID, messageID, "✅ Progress has been reset.", nil)
	default:
		b.refreshSettings(ctx, callback)
	}
}

// refreshWords re-renders the learned word list after a repetition toggle
func (b *Bot) refreshWords(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	words, err := b.deps.Progress.LearnedWords(ctx, "")
	if err != nil {
		b.sendError(callback.Message.Chat.ID, "words", err)
		return
	}

	listed := words
	if len(listed) > b.config.MaxListedWords {
		listed = listed[:b.config.MaxListedWords]
	}
	b.edit(callback.Message.Chat.ID, callback.Message.MessageID,
		formatLearnedWords(words, "", b.config.MaxListedWords), repetitionButtons(listed))
}

func isTheme(s string) bool {
	for _, t := range database.Themes {
		if t == s {
			return true
		}
	}
	return false
}
