package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/healthbot/internal/database"
	"github.com/example/healthbot/pkg/models"
)

const (
	msgNoUserID     = "Не удалось определить ваш идентификатор."
	msgStorageError = "Произошла ошибка, попробуйте позже."
	msgNoData       = "Сначала введите данные!"
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message.Chat == nil {
		return fmt.Errorf("invalid message: chat is missing")
	}
	if message.From == nil {
		return b.reply(message, msgNoUserID)
	}

	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(message)
	case "log_water":
		return b.handleLogWater(ctx, message)
	case "steps":
		return b.handleSteps(ctx, message)
	case "weight":
		return b.handleWeight(ctx, message)
	case "progress":
		return b.handleProgress(ctx, message)
	default:
		return b.handleUnknownCommand(message)
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	// Создаем пользователя при первом взаимодействии
	if err := b.users.EnsureUser(ctx, message.From.ID); err != nil {
		log.Printf("Failed to ensure user %d: %v", message.From.ID, err)
		return b.reply(message, msgStorageError)
	}

	return b.reply(message,
		"Привет! Я помогу тебе следить за водой, весом и шагами. Введи /help для списка команд.")
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "Список команд:\n" +
		"/log_water <кол-во> — добавить количество выпитой воды (мл)\n" +
		"/steps <шаги> — указать шаги за день\n" +
		"/weight <вес> — указать вес\n" +
		"/progress — посмотреть прогресс"
	return b.reply(message, text)
}

func (b *Bot) handleLogWater(ctx context.Context, message *tgbotapi.Message) error {
	amount, err := parseCounterArg(message.CommandArguments())
	if err != nil {
		return b.reply(message, "Укажите количество воды в миллилитрах, например: /log_water 250")
	}

	userID := message.From.ID
	if err := b.users.EnsureUser(ctx, userID); err != nil {
		log.Printf("Failed to ensure user %d: %v", userID, err)
		return b.reply(message, msgStorageError)
	}
	if err := b.users.AddWater(ctx, userID, amount); err != nil {
		log.Printf("Failed to add water for user %d: %v", userID, err)
		return b.reply(message, msgStorageError)
	}

	return b.reply(message, fmt.Sprintf("Добавлено %d мл воды.", amount))
}

func (b *Bot) handleSteps(ctx context.Context, message *tgbotapi.Message) error {
	steps, err := parseCounterArg(message.CommandArguments())
	if err != nil {
		return b.reply(message, "Укажите количество шагов, например: /steps 8000")
	}

	userID := message.From.ID
	if err := b.users.EnsureUser(ctx, userID); err != nil {
		log.Printf("Failed to ensure user %d: %v", userID, err)
		return b.reply(message, msgStorageError)
	}
	if err := b.users.SetSteps(ctx, userID, steps); err != nil {
		log.Printf("Failed to set steps for user %d: %v", userID, err)
		return b.reply(message, msgStorageError)
	}

	return b.reply(message, fmt.Sprintf("Шаги обновлены: %d", steps))
}

func (b *Bot) handleWeight(ctx context.Context, message *tgbotapi.Message) error {
	weight, err := parseWeightArg(message.CommandArguments())
	if err != nil {
		return b.reply(message, "Укажите вес числом, например: /weight 72.5")
	}

	userID := message.From.ID
	if err := b.users.EnsureUser(ctx, userID); err != nil {
		log.Printf("Failed to ensure user %d: %v", userID, err)
		return b.reply(message, msgStorageError)
	}
	if err := b.users.SetWeight(ctx, userID, weight); err != nil {
		log.Printf("Failed to set weight for user %d: %v", userID, err)
		return b.reply(message, msgStorageError)
	}

	return b.reply(message, fmt.Sprintf("Вес обновлен: %s кг", formatWeight(weight)))
}

func (b *Bot) handleProgress(ctx context.Context, message *tgbotapi.Message) error {
	user, err := b.users.GetByID(ctx, message.From.ID)
	if errors.Is(err, database.ErrUserNotFound) {
		return b.reply(message, msgNoData)
	}
	if err != nil {
		log.Printf("Failed to get progress for user %d: %v", message.From.ID, err)
		return b.reply(message, msgStorageError)
	}

	return b.reply(message, progressText(user))
}

func (b *Bot) handleUnknownCommand(message *tgbotapi.Message) error {
	return b.reply(message, "Неизвестная команда. Введи /help для списка команд.")
}

// parseCounterArg parses a single non-negative integer command argument.
// Extra tokens after the first are ignored, as in "/log_water 250 ml".
func parseCounterArg(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing argument")
	}

	n, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", fields[0])
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value: %d", n)
	}
	return n, nil
}

// parseWeightArg parses a positive finite weight in kilograms.
func parseWeightArg(args string) (float64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing argument")
	}

	w, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", fields[0])
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, fmt.Errorf("weight out of range: %v", w)
	}
	return w, nil
}

// progressText renders the current counters. Weight 0 means the user never
// reported one.
func progressText(user *models.User) string {
	weight := "Не указан"
	if user.Weight > 0 {
		weight = formatWeight(user.Weight) + " кг"
	}

	return fmt.Sprintf("Прогресс:\n- Вес: %s\n- Вода: %d мл\n- Шаги: %d",
		weight, user.Water, user.Steps)
}

func formatWeight(weight float64) string {
	return strconv.FormatFloat(weight, 'f', -1, 64)
}
