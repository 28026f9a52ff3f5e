package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/ui"
	"github.com/sandevgo/gradebot/pkg/conv"
	"github.com/sandevgo/gradebot/pkg/log"
)

const (
	// UserID is the conversation key used for the local terminal.
	UserID = "cli-local"
	// pressPrefix simulates a button press: "!press grades|23070045".
	pressPrefix = "!press "
)

// Handler produces replies for incoming messages and button presses.
type Handler interface {
	HandleText(ctx context.Context, userID, text string) core.Reply
	HandleCallback(ctx context.Context, userID, data string) core.Reply
}

type ReadLine struct {
	cfg     *config.AppConfig
	handler Handler
	rl      *readline.Instance
}

func NewReadLine(handler Handler, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{cfg: cfg, handler: handler, rl: rl}, nil
}

func (r *ReadLine) Name() string { return "cli" }

func (r *ReadLine) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "cli")
	log.FromCtx(ctx).Info().Msg("chat started. Type 'exit' to quit, '!press <data>' to press a button.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		WriteReply(r.rl.Stdout(), Dispatch(ctx, r.handler, UserID, line))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Dispatch routes one terminal line to the handler.
func Dispatch(ctx context.Context, h Handler, userID, line string) core.Reply {
	if data, ok := strings.CutPrefix(line, pressPrefix); ok {
		return h.HandleCallback(ctx, userID, strings.TrimSpace(data))
	}
	return h.HandleText(ctx, userID, line)
}

// WriteReply prints the reply as plain text followed by its buttons.
func WriteReply(w io.Writer, reply core.Reply) {
	fmt.Fprintln(w, strings.TrimSpace(conv.MarkdownToPlain(reply.Text)))
	for _, row := range reply.Buttons {
		for _, btn := range row {
			fmt.Fprintf(w, "  %s %s%s\n", ui.ButtonStyle.Render("["+btn.Label+"]"), pressPrefix, btn.Data)
		}
	}
}
