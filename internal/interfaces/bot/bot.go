// Package bot is the Telegram surface: a long-polling dialog that turns
// free-form birth lines into natal charts and synastry reports, with the
// wheel image sent first and the text report after, chunked to the caption
// limit.
package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/astroluna/astroluna/internal/application/chart"
	"github.com/astroluna/astroluna/internal/config"
	"github.com/astroluna/astroluna/internal/interfaces/render"
	"github.com/astroluna/astroluna/internal/telemetry/metrics"
)

// Client is the slice of the Telegram API the bot uses. *tgbotapi.BotAPI
// satisfies it.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot runs the Telegram dialog.
type Bot struct {
	client   Client
	charts   *chart.Service
	wheel    *render.Wheel
	metrics  *metrics.Registry
	limiter  *rate.Limiter
	sessions *sessions
	caption  int
	poll     time.Duration
}

// New wires the bot. m may be nil.
func New(client Client, cfg config.BotConfig, charts *chart.Service, wheel *render.Wheel, m *metrics.Registry) *Bot {
	rps := cfg.SendRPS
	if rps <= 0 {
		rps = 25
	}
	caption := cfg.CaptionLimit
	if caption <= 0 {
		caption = 1000
	}
	poll := cfg.PollTimeout()
	if poll <= 0 {
		poll = 30 * time.Second
	}
	return &Bot{
		client:   client,
		charts:   charts,
		wheel:    wheel,
		metrics:  m,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		sessions: newSessions(),
		caption:  caption,
		poll:     poll,
	}
}

// Run polls for updates until the context is canceled. Cancellation is a
// normal stop, not an error.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(b.poll.Seconds())
	updates := b.client.GetUpdatesChan(u)
	log.Info().Msg("bot polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.metrics.RecordBotUpdate("callback")
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.IsCommand():
		b.metrics.RecordBotUpdate("command")
		b.handleCommand(ctx, u.Message)
	case u.Message != nil && u.Message.Text != "":
		b.metrics.RecordBotUpdate("message")
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) setMode(chatID int64, sess session) {
	if b.sessions.set(chatID, sess) {
		b.metrics.SessionStarted()
	}
}

func (b *Bot) clear(chatID int64) {
	if b.sessions.clear(chatID) {
		b.metrics.SessionEnded()
	}
}

// send pushes one message through the rate limiter.
func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable, kind string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := b.client.Send(c); err != nil {
		b.metrics.RecordBotSend(kind, "error")
		log.Warn().Err(err).Str("kind", kind).Msg("telegram send failed")
		return err
	}
	b.metrics.RecordBotSend(kind, "ok")
	return nil
}

func (b *Bot) text(ctx context.Context, chatID int64, text string) error {
	return b.send(ctx, tgbotapi.NewMessage(chatID, text), "text")
}

func (b *Bot) markdown(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return b.send(ctx, msg, "text")
}

func (b *Bot) keyboard(ctx context.Context, chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	return b.send(ctx, msg, "text")
}

func (b *Bot) photo(ctx context.Context, chatID int64, png []byte) error {
	return b.send(ctx, tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: png}), "photo")
}

// chunkRunes splits s into rune-count chunks so a multibyte report never
// breaks mid-character. An empty string yields no chunks.
func chunkRunes(s string, n int) []string {
	if s == "" {
		return nil
	}
	if n <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	out := make([]string, 0, (len(runes)+n-1)/n)
	for start := 0; start < len(runes); start += n {
		end := start + n
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
