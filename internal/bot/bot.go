package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mastermind6482/WordWise/internal/database"
	"github.com/mastermind6482/WordWise/internal/excel"
	"github.com/mastermind6482/WordWise/internal/progress"
	"github.com/mastermind6482/WordWise/internal/quiz"
	"github.com/mastermind6482/WordWise/pkg/models"
)

// TelegramAPI is the part of tgbotapi.BotAPI the bot uses
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	GetFileDirectURL(fileID string) (string, error)
}

// QuizSession runs the tests shown in the chat
type QuizSession interface {
	StartAsync(ctx context.Context, level models.Level, count int) <-chan error
	RestartAsync(ctx context.Context) <-chan error
	Answer(index int) (bool, error)
	Advance(ctx context.Context) error
	Snapshot() quiz.Snapshot
	Subscribe(fn func(quiz.Snapshot)) (cancel func())
}

// ProgressService manages the profile and learning progress
type ProgressService interface {
	GetUser(ctx context.Context) (*models.User, error)
	CreateUser(ctx context.Context, name string, level models.Level) (*models.User, error)
	UpdateLevel(ctx context.Context, level models.Level) error
	LearnedWords(ctx context.Context, query string) ([]models.Word, error)
	ToggleRepetition(ctx context.Context, id string, needsRepetition bool) error
	ResetProgress(ctx context.Context) error
	Summary(ctx context.Context) (*progress.Summary, error)
}

// Preferences stores user settings
type Preferences interface {
	Get(ctx context.Context, key, defaultValue string) (string, error)
	GetInt(ctx context.Context, key string, defaultValue int) (int, error)
	Set(ctx context.Context, key, value string) error
}

// Importer loads uploaded word lists
type Importer interface {
	Import(ctx context.Context, r io.Reader, format excel.Format) (*excel.ImportResult, error)
}

// Deps are the collaborators of the bot
type Deps struct {
	Quiz        QuizSession
	Progress    ProgressService
	Preferences Preferences
	Importer    Importer
	HTTPClient  *http.Client // used to download uploaded files
}

// conversation states
const (
	stateIdle          = ""
	stateAwaitingName  = "awaiting_name"
	stateAwaitingLevel = "awaiting_level"
	stateAwaitingFile  = "awaiting_file"
)

var errNoOwner = errors.New("owner chat is not known yet")

// Bot represents the Telegram bot application. It serves a single learner: the
// owner chat.
type Bot struct {
	api    TelegramAPI
	deps   Deps
	config *BotConfig

	mu          sync.Mutex
	ownerID     int64
	state       string
	pendingName string

	// tests being loaded in the background
	loading sync.WaitGroup

	unsubscribe func()
}

// New creates a new bot instance
func New(api TelegramAPI, deps Deps, config *BotConfig) *Bot {
	if config == nil {
		config = DefaultConfig()
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: config.DownloadTimeout}
	}

	b := &Bot{
		api:     api,
		deps:    deps,
		config:  config,
		ownerID: config.OwnerChatID,
	}
	b.unsubscribe = deps.Quiz.Subscribe(func(s quiz.Snapshot) {
		zap.S().Debugw("Quiz state changed",
			"state", s.State.String(),
			"index", s.Index,
			"total", s.Total,
			"answered", s.Answered(),
		)
	})
	return b
}

// Run receives updates until ctx is cancelled. Updates are handled one at a time
// so answers reach the quiz in the order they were sent.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			zap.S().Infow("Stopping bot")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop waits for tests still loading and releases the quiz subscription
func (b *Bot) Stop() {
	b.loading.Wait()
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// SendRepetitionReminder sends the daily reminder to the owner chat
func (b *Bot) SendRepetitionReminder(ctx context.Context, words []models.Word, total int) error {
	chatID, err := b.owner(ctx)
	if err != nil {
		return err
	}
	if chatID == 0 {
		return errNoOwner
	}

	msg := tgbotapi.NewMessage(chatID, formatReminder(words, total))
	msg.ReplyMarkup = createKeyboard(repetitionButtons(words))
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder (chat_id: %d): %w", chatID, err)
	}
	return nil
}

// owner returns the owner chat, loading a previously claimed one from preferences
func (b *Bot) owner(ctx context.Context) (int64, error) {
	b.mu.Lock()
	ownerID := b.ownerID
	b.mu.Unlock()
	if ownerID != 0 {
		return ownerID, nil
	}

	stored, err := b.deps.Preferences.Get(ctx, database.PrefOwnerChatID, "")
	if err != nil {
		return 0, fmt.Errorf("get owner chat: %w", err)
	}
	if stored == "" {
		return 0, nil
	}
	ownerID, err = strconv.ParseInt(stored, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse owner chat (value: %s): %w", stored, err)
	}

	b.mu.Lock()
	b.ownerID = ownerID
	b.mu.Unlock()
	return ownerID, nil
}

// authorize reports whether chatID may use the bot. The first chat to arrive
// while no owner is configured becomes the owner.
func (b *Bot) authorize(ctx context.Context, chatID int64) (bool, error) {
	ownerID, err := b.owner(ctx)
	if err != nil {
		return false, err
	}
	if ownerID != 0 {
		return ownerID == chatID, nil
	}

	if err := b.deps.Preferences.Set(ctx, database.PrefOwnerChatID, strconv.FormatInt(chatID, 10)); err != nil {
		return false, fmt.Errorf("claim owner chat (chat_id: %d): %w", chatID, err)
	}
	b.mu.Lock()
	b.ownerID = chatID
	b.mu.Unlock()

	zap.S().Infow("Owner chat claimed", "chat_id", chatID)
	return true, nil
}

func (b *Bot) setState(state string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
}

func (b *Bot) getState() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bot) send(chatID int64, text string, buttons [][]MenuButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = createKeyboard(buttons)
	}
	if _, err := b.api.Send(msg); err != nil {
		zap.S().Errorw("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, buttons [][]MenuButton) {
	var edit tgbotapi.EditMessageTextConfig
	if len(buttons) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, createKeyboard(buttons))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := b.api.Send(edit); err != nil {
		zap.S().Errorw("Failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		zap.S().Warnw("Failed to answer callback", "callback_id", callback.ID, "error", err)
	}
}

func (b *Bot) sendError(chatID int64, action string, err error) {
	zap.S().Errorw("Handler failed", "action", action, "chat_id", chatID, "error", err)
	b.send(chatID, "Something went wrong, please try again later.", nil)
}
