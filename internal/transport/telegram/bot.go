package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Handler produces replies for incoming messages and button presses.
type Handler interface {
	HandleText(ctx context.Context, userID, text string) core.Reply
	HandleCallback(ctx context.Context, userID, data string) core.Reply
}

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	handler Handler
	sender  *sender
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig, handler Handler) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		handler: handler,
		sender:  newSender(b),
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, log.WithComponent(ctx, "telegram"))
			return next(c)
		}
	})

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	// Slash commands arrive as text too and are dispatched by the handler.
	b.Handle(tele.OnText, bot.handleMessage)
	b.Handle(tele.OnCallback, bot.handleCallback)

	return bot, nil
}

func (b *Bot) Name() string { return "telegram" }

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("bot", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	_ = c.Notify(tele.Typing)

	reply := b.handler.HandleText(ctx, senderID(c), c.Text())
	return b.sender.sendReply(ctx, c.Chat(), reply)
}

func (b *Bot) handleCallback(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	if err := c.Respond(); err != nil {
		logger.Warn().Err(err).Msg("failed to answer callback")
	}

	data := strings.TrimPrefix(c.Callback().Data, "\f")
	reply := b.handler.HandleCallback(ctx, senderID(c), data)

	html := renderHTML(reply.Text)
	chunks := splitHTML(html, maxTelegramMsgLen)
	if len(chunks) == 1 && c.Message() != nil {
		err := c.Edit(chunks[0], buildMarkup(ctx, reply.Buttons), tele.ModeHTML)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return nil
		}
		logger.Warn().Err(err).Msg("failed to edit message, sending a new one")
	}
	return b.sender.sendReply(ctx, c.Chat(), reply)
}

func senderID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}
