package telegram

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/interfaces"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/service/session"
	"github.com/secmon-lab/kanbot/pkg/utils/logging"
)

const (
	longPollTimeout = 30 * time.Second
	idleDelay       = 1 * time.Second
	errorBackoff    = 5 * time.Second
)

// BotAPI is the slice of the Telegram client the gateway uses. The real
// implementation is *tgbotapi.BotAPI; tests substitute a fake.
type BotAPI interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Gateway long-polls Telegram for inbound commands, drives the per-chat
// task creation dialogue, and exposes the outbound send primitive.
type Gateway struct {
	bot      BotAPI
	repo     interfaces.Repository
	sessions *session.Service
	bus      interfaces.BoardBroadcaster

	stopCh chan struct{}
	doneCh chan struct{}

	lastUpdateID int
}

var _ interfaces.MessageSender = &Gateway{}

// New connects to Telegram with the bot token. The token is verified
// against the API, and any webhook registration is dropped so long-polling
// is the exclusive inbound channel.
func New(ctx context.Context, token string, repo interfaces.Repository, sessions *session.Service, bus interfaces.BoardBroadcaster) (*Gateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize telegram bot")
	}

	logging.From(ctx).Info("telegram bot initialized", "username", bot.Self.UserName)

	g := NewWithBot(bot, repo, sessions, bus)

	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		logging.From(ctx).Warn("could not delete telegram webhook", "error", err.Error())
	}

	return g, nil
}

// NewWithBot wires the gateway to an already constructed client
func NewWithBot(bot BotAPI, repo interfaces.Repository, sessions *session.Service, bus interfaces.BoardBroadcaster) *Gateway {
	return &Gateway{
		bot:      bot,
		repo:     repo,
		sessions: sessions,
		bus:      bus,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the polling worker. It does not block.
func (g *Gateway) Start(ctx context.Context) {
	logging.From(ctx).Info("telegram polling worker starting")
	go g.run(ctx)
}

// Stop signals the polling worker and waits for it to finish
func (g *Gateway) Stop() {
	close(g.stopCh)
	<-g.doneCh
	logging.Default().Info("telegram polling worker stopped")
}

func (g *Gateway) run(ctx context.Context) {
	defer close(g.doneCh)

	for {
		select {
		case <-g.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		cfg := tgbotapi.NewUpdate(g.lastUpdateID + 1)
		cfg.Timeout = int(longPollTimeout.Seconds())

		updates, err := g.bot.GetUpdates(cfg)
		if err != nil {
			logging.From(ctx).Error("failed to get telegram updates", "error", err.Error())
			if !g.sleep(ctx, errorBackoff) {
				return
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID > g.lastUpdateID {
				g.lastUpdateID = update.UpdateID
			}
			g.handleUpdate(ctx, update)
		}

		if len(updates) == 0 {
			if !g.sleep(ctx, idleDelay) {
				return
			}
		}
	}
}

// sleep waits for d unless the worker is stopped first. Returns false when
// the worker should exit.
func (g *Gateway) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-g.stopCh:
		return false
	case <-ctx.Done():
		return false
	}
}

// Send delivers a message to the chat with HTML markup. Best effort:
// failures are logged and reported as false, never raised.
func (g *Gateway) Send(ctx context.Context, chatID types.ChatID, text string) bool {
	id, err := strconv.ParseInt(string(chatID), 10, 64)
	if err != nil {
		logging.From(ctx).Error("invalid telegram chat ID", "chatID", chatID, "error", err.Error())
		return false
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := g.bot.Send(msg); err != nil {
		logging.From(ctx).Error("failed to send telegram message",
			"chatID", chatID, "error", err.Error())
		return false
	}
	return true
}
