package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/eduprofile/internal/analysis"
	"github.com/example/eduprofile/internal/logger"
	"github.com/example/eduprofile/pkg/models"
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

// StudentStore looks up and links students
type StudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Student, error)
	LinkTelegram(ctx context.Context, studentID, telegramID int64) error
}

// AnalysisReader reads stored analyses
type AnalysisReader interface {
	GetLatest(ctx context.Context, studentID int64, scope string) (*models.StudentAnalysis, error)
	GetDirections(ctx context.Context, analysisID int64) ([]models.AnalysisDirection, error)
	GetWeakTopics(ctx context.Context, analysisID int64) ([]models.AnalysisWeakTopic, error)
}

// ResultReader reads a student's completed tests
type ResultReader interface {
	GetByStudentID(ctx context.Context, studentID int64) ([]models.TestResult, error)
}

// AnalysisRunner runs analysis passes
type AnalysisRunner interface {
	Run(ctx context.Context, studentID int64, scope analysis.Scope) (*analysis.Report, error)
	RunAll(ctx context.Context, scope analysis.Scope) ([]*analysis.Report, error)
}

// sender is the part of the Telegram API the bot talks to
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api      sender
	client   *tgbotapi.BotAPI
	config   *BotConfig
	students StudentStore
	analyses AnalysisReader
	results  ResultReader
	runner   AnalysisRunner
	admins   map[int64]bool
	log      *logger.Logger
}

// New creates a new bot instance. Call Connect before sharing the bot with
// other goroutines.
func New(config *BotConfig, students StudentStore, analyses AnalysisReader, results ResultReader, runner AnalysisRunner, log *logger.Logger) (*Bot, error) {
	if config == nil || config.Token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	if log == nil {
		log = logger.Nop()
	}

	bot := &Bot{
		config:   config,
		students: students,
		analyses: analyses,
		results:  results,
		runner:   runner,
		admins:   make(map[int64]bool),
		log:      log,
	}
	for _, id := range config.AdminUserIDs {
		bot.admins[id] = true
	}
	return bot, nil
}

// Connect authorizes the bot with Telegram
func (b *Bot) Connect() error {
	botAPI, err := tgbotapi.NewBotAPI(b.config.Token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	b.client = botAPI
	b.api = botAPI
	b.log.Info("authorized on account", "username", botAPI.Self.UserName)
	return nil
}

// Start handles updates until ctx is cancelled, connecting first if needed.
// It returns once every running handler has finished.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		if err := b.Connect(); err != nil {
			return err
		}
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := b.client.GetUpdatesChan(updateConfig)

	b.serve(ctx, updates)
	b.client.StopReceivingUpdates()
	b.log.Info("bot stopped")
	return nil
}

// serve dispatches updates to at most MaxConcurrentUpdates handlers and
// waits for them before returning
func (b *Bot) serve(ctx context.Context, updates <-chan tgbotapi.Update) {
	limit := b.config.MaxConcurrentUpdates
	if limit <= 0 {
		limit = 1
	}
	slots := make(chan struct{}, limit)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				defer func() { <-slots }()
				b.handleUpdate(ctx, update)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, b.config.RequestTimeout)
	defer cancel()

	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.HandleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		err = b.handleHelp(update.Message)
	}
	if err != nil {
		b.log.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
}

// NotifyAnalysis sends a fresh analysis to the student's linked chat.
// Students without a linked chat are skipped.
func (b *Bot) NotifyAnalysis(ctx context.Context, report *analysis.Report) error {
	if b.api == nil {
		return errors.New("bot is not connected")
	}
	student, err := b.students.GetByID(ctx, report.StudentID)
	if err != nil {
		return err
	}
	if !student.TelegramID.Valid {
		return nil
	}
	msg := tgbotapi.NewMessage(student.TelegramID.Int64, "🔔 Your analysis has been updated\n\n"+FormatReport(report))
	return b.sendMessage(msg)
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.admins[userID]
}

// MainMenuButtons returns the main menu layout
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📊 Analysis", CallbackData: callbackAnalysis}, {Text: "🏫 Current class", CallbackData: callbackAnalysisClass}},
		{{Text: "🧭 Directions", CallbackData: callbackDirections}, {Text: "📄 Excel report", CallbackData: callbackReport}},
		{{Text: "📝 Recent results", CallbackData: callbackResults}, {Text: "❓ Help", CallbackData: callbackHelp}},
	}
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
