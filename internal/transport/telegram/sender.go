package telegram

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/pkg/conv"
	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/sandevgo/gradebot/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

const (
	maxTelegramMsgLen   = 4000 // Safety margin below 4096
	maxCallbackDataSize = 64
)

type sender struct {
	bot     *tele.Bot
	retrier *retry.Retrier
}

func newSender(bot *tele.Bot) *sender {
	cfg := retry.NewDefaultConfig()
	cfg.Retryable = retryableSendError
	return &sender{bot: bot, retrier: retry.NewRetrier(cfg)}
}

// sendReply converts the reply to Telegram HTML and sends it in chunks.
// The inline keyboard goes with the last chunk.
func (s *sender) sendReply(ctx context.Context, to tele.Recipient, reply core.Reply) error {
	logger := log.FromCtx(ctx)

	chunks := splitHTML(renderHTML(reply.Text), maxTelegramMsgLen)
	markup := buildMarkup(ctx, reply.Buttons)

	for i, chunk := range chunks {
		opts := []any{tele.ModeHTML}
		if i == len(chunks)-1 && markup != nil {
			opts = append(opts, markup)
		}

		err := s.retrier.Do(ctx, func() error {
			_, err := s.bot.Send(to, chunk, opts...)
			return err
		})
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

func renderHTML(md string) string {
	html := conv.TrimBlankLines(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return "…"
	}
	return html
}

// buildMarkup maps reply buttons to an inline keyboard. Buttons whose
// payload exceeds Telegram's callback data limit are dropped.
func buildMarkup(ctx context.Context, rows [][]core.Button) *tele.ReplyMarkup {
	var keyboard [][]tele.InlineButton
	for _, row := range rows {
		var buttons []tele.InlineButton
		for _, btn := range row {
			if len(btn.Data) > maxCallbackDataSize {
				log.FromCtx(ctx).Warn().Str("data", btn.Data).Msg("callback data too long, button dropped")
				continue
			}
			buttons = append(buttons, tele.InlineButton{Text: btn.Label, Data: btn.Data})
		}
		if len(buttons) > 0 {
			keyboard = append(keyboard, buttons)
		}
	}
	if len(keyboard) == 0 {
		return nil
	}
	return &tele.ReplyMarkup{InlineKeyboard: keyboard}
}

func retryableSendError(err error) bool {
	switch {
	case errors.Is(err, tele.ErrBlockedByUser),
		errors.Is(err, tele.ErrChatNotFound),
		errors.Is(err, tele.ErrSameMessageContent):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}

