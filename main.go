package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mastermind6482/WordWise/internal/bot"
	"github.com/mastermind6482/WordWise/internal/config"
	"github.com/mastermind6482/WordWise/internal/database"
	"github.com/mastermind6482/WordWise/internal/excel"
	"github.com/mastermind6482/WordWise/internal/progress"
	"github.com/mastermind6482/WordWise/internal/quiz"
	"github.com/mastermind6482/WordWise/internal/remote"
	"github.com/mastermind6482/WordWise/internal/scheduler"
	"github.com/mastermind6482/WordWise/internal/words"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.EncoderConfig.TimeKey = "timestamp"

	logger, err := logConfig.Build()
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(); err != nil {
		zap.S().Fatalw("WordWise stopped with error", "error", err)
	}
	zap.S().Info("WordWise stopped")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	zap.S().Infow("Database ready", "driver", cfg.DBDriver)

	wordRepo := database.NewWordRepository(db)
	userRepo := database.NewUserRepository(db)
	resultRepo := database.NewTestResultRepository(db, wordRepo)
	prefsRepo := database.NewPreferencesRepository(db)

	seeded, err := words.Seed(ctx, wordRepo)
	if err != nil {
		return fmt.Errorf("seed words: %w", err)
	}
	if seeded > 0 {
		zap.S().Infow("Seeded built-in words", "count", seeded)
	}

	importer := excel.NewImporter(wordRepo, excel.DefaultImportConfig())
	if cfg.SeedFile != "" {
		result, err := importer.ImportFile(ctx, cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("import seed file (path: %s): %w", cfg.SeedFile, err)
		}
		zap.S().Infow("Imported seed file",
			"path", cfg.SeedFile,
			"created", result.Created,
			"skipped", result.Skipped,
			"errors", len(result.Errors),
		)
	}

	var cache remote.EntryCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			zap.S().Warnw("Redis unavailable, dictionary cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = remote.NewRedisEntryCache(rdb, cfg.DictionaryCacheTTL)
			zap.S().Infow("Dictionary cache enabled", "addr", cfg.RedisAddr)
		}
	}

	supplier := words.NewSupplier(
		wordRepo,
		remote.NewRandomWordClient(cfg.RandomWordAPIURL, cfg.HTTPTimeout),
		remote.NewDictionaryClient(cfg.DictionaryAPIURL, cfg.HTTPTimeout, cache),
		cfg.RemoteFetchConcurrency,
	)
	progressService := progress.NewService(userRepo, wordRepo, resultRepo)
	session := quiz.NewSession(supplier, progressService)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	zap.S().Infow("Authorized on Telegram", "account", api.Self.UserName)

	botConfig := bot.DefaultConfig()
	botConfig.OwnerChatID = cfg.OwnerChatID
	botConfig.DefaultWordsPerTest = cfg.WordsPerTest
	botConfig.DownloadTimeout = cfg.HTTPTimeout

	b := bot.New(api, bot.Deps{
		Quiz:        session,
		Progress:    progressService,
		Preferences: prefsRepo,
		Importer:    importer,
	}, botConfig)
	defer b.Stop()

	if cfg.EnableScheduler {
		reminders := scheduler.New(progressService, b, cfg.ReminderHour)
		if err := reminders.Start(); err != nil {
			return err
		}
		defer reminders.Stop()
	}

	zap.S().Info("Bot started. Press Ctrl+C to stop.")
	b.Run(ctx)
	return nil
}
