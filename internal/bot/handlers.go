package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/eduprofile/internal/analysis"
	"github.com/example/eduprofile/internal/database"
	"github.com/example/eduprofile/internal/excel"
	"github.com/example/eduprofile/pkg/models"
)

// Constants for callback data
const (
	callbackAnalysis      = "analysis"
	callbackAnalysisClass = "analysis_class"
	callbackDirections    = "directions"
	callbackReport        = "report"
	callbackResults       = "results"
	callbackHelp          = "help"
)

const notLinkedText = "Your Telegram account is not linked to a student yet.\n" +
	"Send /start <student_id> to link it."

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.From == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(ctx, message)
	case "help":
		err = b.handleHelp(message)
	case "analysis":
		err = b.handleAnalysis(ctx, message.Chat.ID, message.From.ID, analysis.ScopeAll)
	case "analysis_class":
		err = b.handleAnalysis(ctx, message.Chat.ID, message.From.ID, analysis.ScopeCurrentClass)
	case "directions":
		err = b.handleDirections(ctx, message.Chat.ID, message.From.ID)
	case "report":
		err = b.handleReport(ctx, message.Chat.ID, message.From.ID)
	case "results":
		err = b.handleResults(ctx, message.Chat.ID, message.From.ID)
	case "run_all":
		err = b.handleRunAll(ctx, message)
	default:
		err = b.handleUnknownCommand(message)
	}
	return err
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		student, err := b.students.GetByTelegramID(ctx, message.From.ID)
		if errors.Is(err, database.ErrNotFound) {
			return b.sendText(message.Chat.ID, "👋 Welcome!\n\n"+notLinkedText)
		}
		if err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("👋 Welcome back, %s!", student.FullName()))
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		return b.sendMessage(msg)
	}

	studentID, err := strconv.ParseInt(args, 10, 64)
	if err != nil || studentID <= 0 {
		return b.sendText(message.Chat.ID, "⚠️ The student id must be a positive number.")
	}
	student, err := b.students.GetByID(ctx, studentID)
	if errors.Is(err, database.ErrNotFound) {
		return b.sendText(message.Chat.ID, fmt.Sprintf("⚠️ Student %d was not found.", studentID))
	}
	if err != nil {
		return err
	}
	if err := b.students.LinkTelegram(ctx, studentID, message.From.ID); err != nil {
		return err
	}
	b.log.Info("telegram account linked", "student_id", studentID, "telegram_id", message.From.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("✅ Linked to %s.", student.FullName()))
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "📖 Commands\n\n" +
		"/start <student_id> - link your account to a student\n" +
		"/analysis - analyse all your results\n" +
		"/analysis_class - analyse the results of your current class\n" +
		"/directions - show the latest direction statistics\n" +
		"/report - receive the analysis as an Excel file\n" +
		"/results - show your latest test results\n" +
		"/help - show this help"
	if message.From != nil && b.isAdmin(message.From.ID) {
		text += "\n\n🔧 Admin\n/run_all - analyse every student"
	}
	return b.sendText(message.Chat.ID, text)
}

// linkedStudent returns the student linked to a Telegram user, sending the
// linking hint when there is none
func (b *Bot) linkedStudent(ctx context.Context, chatID, userID int64) (*models.Student, error) {
	student, err := b.students.GetByTelegramID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, b.sendText(chatID, notLinkedText)
	}
	return student, err
}

func (b *Bot) handleAnalysis(ctx context.Context, chatID, userID int64, scope analysis.Scope) error {
	student, err := b.linkedStudent(ctx, chatID, userID)
	if student == nil {
		return err
	}

	report, err := b.runner.Run(ctx, student.ID, scope)
	if err != nil {
		return b.sendAnalysisError(chatID, err)
	}
	return b.sendText(chatID, FormatReport(report))
}

func (b *Bot) handleDirections(ctx context.Context, chatID, userID int64) error {
	student, err := b.linkedStudent(ctx, chatID, userID)
	if student == nil {
		return err
	}

	stored, err := b.analyses.GetLatest(ctx, student.ID, analysis.ScopeAll.String())
	if errors.Is(err, database.ErrNotFound) {
		return b.sendText(chatID, "No analysis yet. Send /analysis first.")
	}
	if err != nil {
		return err
	}
	directions, err := b.analyses.GetDirections(ctx, stored.ID)
	if err != nil {
		return err
	}
	topics, err := b.analyses.GetWeakTopics(ctx, stored.ID)
	if err != nil {
		return err
	}
	return b.sendText(chatID, FormatStored(stored, directions, topics))
}

func (b *Bot) handleReport(ctx context.Context, chatID, userID int64) error {
	student, err := b.linkedStudent(ctx, chatID, userID)
	if student == nil {
		return err
	}

	report, err := b.runner.Run(ctx, student.ID, analysis.ScopeAll)
	if err != nil {
		return b.sendAnalysisError(chatID, err)
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, report); err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  excel.ReportFileName(report),
		Bytes: buf.Bytes(),
	})
	doc.Caption = report.StudentName
	return b.sendMessage(doc)
}

func (b *Bot) handleResults(ctx context.Context, chatID, userID int64) error {
	student, err := b.linkedStudent(ctx, chatID, userID)
	if student == nil {
		return err
	}

	results, err := b.results.GetByStudentID(ctx, student.ID)
	if err != nil {
		return err
	}
	return b.sendText(chatID, FormatResults(results, recentResultsLimit))
}

func (b *Bot) handleRunAll(ctx context.Context, message *tgbotapi.Message) error {
	if !b.isAdmin(message.From.ID) {
		return b.sendText(message.Chat.ID, "⛔ This command is only available to administrators.")
	}
	if err := b.sendText(message.Chat.ID, "⏳ Analysing every student..."); err != nil {
		return err
	}

	reports, err := b.runner.RunAll(ctx, analysis.ScopeAll)
	if err != nil {
		return b.sendAnalysisError(message.Chat.ID, err)
	}
	return b.sendText(message.Chat.ID, fmt.Sprintf("✅ Analyses saved: %d", len(reports)))
}

func (b *Bot) handleUnknownCommand(message *tgbotapi.Message) error {
	return b.sendText(message.Chat.ID, "Unknown command. Send /help for the list of commands.")
}

func (b *Bot) sendAnalysisError(chatID int64, err error) error {
	switch {
	case errors.Is(err, analysis.ErrNoResultsInScope):
		return b.sendText(chatID, "No completed tests were found for this analysis.")
	case errors.Is(err, analysis.ErrEmptyPopulation):
		return b.sendText(chatID, "There are no completed tests in the system yet.")
	}
	if sendErr := b.sendText(chatID, "❌ The analysis failed. Please try again later."); sendErr != nil {
		b.log.Warn("failed to report analysis error", "chat_id", chatID, "error", sendErr)
	}
	return err
}

// HandleCallback handles inline keyboard presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback == nil || callback.Message == nil || callback.From == nil {
		return fmt.Errorf("invalid callback data: required fields are missing")
	}

	// Always answer the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", "error", err)
	}

	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	switch callback.Data {
	case callbackAnalysis:
		return b.handleAnalysis(ctx, chatID, userID, analysis.ScopeAll)
	case callbackAnalysisClass:
		return b.handleAnalysis(ctx, chatID, userID, analysis.ScopeCurrentClass)
	case callbackDirections:
		return b.handleDirections(ctx, chatID, userID)
	case callbackReport:
		return b.handleReport(ctx, chatID, userID)
	case callbackResults:
		return b.handleResults(ctx, chatID, userID)
	case callbackHelp:
		return b.handleHelp(&tgbotapi.Message{From: callback.From, Chat: callback.Message.Chat})
	default:
		return b.sendText(chatID, "⚠️ Unknown action")
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, truncate(text)))
}
