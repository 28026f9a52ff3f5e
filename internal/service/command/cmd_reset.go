package command

import (
	"context"

	"github.com/sandevgo/gradebot/internal/core"
)

type ResetCommand struct {
	mem       core.Memory
	formatter *ResponseFormatter
}

func NewResetCommand(mem core.Memory) *ResetCommand {
	return &ResetCommand{
		mem:       mem,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Forget this conversation's history"
}

// Execute drops the user's history. Knowledge is shared across users and
// is kept.
func (c *ResetCommand) Execute(ctx context.Context, userID string, args []string) (core.Reply, error) {
	c.mem.ClearHistory(ctx, userID)
	return core.TextReply(c.formatter.Success("Conversation history cleared")), nil
}
