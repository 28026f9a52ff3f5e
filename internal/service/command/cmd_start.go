package command

import (
	"context"

	"github.com/sandevgo/gradebot/internal/core"
)

// StartedMarker is recorded as a system turn when a user starts over.
const StartedMarker = "New conversation started"

const WelcomeText = "🎓 **Academic Records Assistant**\n\n" +
	"You can ask about:\n" +
	"👤 Students (by enrollment id or full name)\n" +
	"👨‍🏫 Teachers (by name)\n" +
	"📚 Subjects and programs\n\n" +
	"Examples:\n" +
	"- `23070045` (student enrollment id)\n" +
	"- `José Aarón Castor Salinas` (student)\n" +
	"- `Teacher Alicia Murillo`\n" +
	"- `List teachers`\n" +
	"- `Average grade in Professional Ethics`\n\n" +
	"Ask whatever you need!"

type StartCommand struct {
	mem core.Memory
}

func NewStartCommand(mem core.Memory) *StartCommand {
	return &StartCommand{mem: mem}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Start a new conversation"
}

func (c *StartCommand) Execute(ctx context.Context, userID string, args []string) (core.Reply, error) {
	c.mem.AppendTurn(ctx, userID, core.RoleSystem, StartedMarker)
	return core.TextReply(WelcomeText), nil
}
