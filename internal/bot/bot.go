package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/healthbot/pkg/models"
)

// userStore is the slice of the ledger the command handlers need.
type userStore interface {
	EnsureUser(ctx context.Context, userID int64) error
	AddWater(ctx context.Context, userID, amount int64) error
	SetSteps(ctx context.Context, userID, steps int64) error
	SetWeight(ctx context.Context, userID int64, weight float64) error
	GetByID(ctx context.Context, userID int64) (*models.User, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api     *tgbotapi.BotAPI
	users   userStore
	timeout int
}

// New creates a bot instance and authorizes it against the Telegram API.
// An invalid token is a startup failure, not something to retry at runtime.
func New(cfg *Config, users userStore) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		users:   users,
		timeout: cfg.UpdateTimeout,
	}, nil
}

// Start runs the long-polling update loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	log.Println("Bot stopped")
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	if err := b.HandleCommand(ctx, update.Message); err != nil {
		log.Printf("Error handling /%s: %v", update.Message.Command(), err)
	}
}

func (b *Bot) reply(message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %v", message.Chat.ID, err)
	}
	return nil
}
