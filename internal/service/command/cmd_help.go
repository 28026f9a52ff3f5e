package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/gradebot/internal/core"
)

type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

// NewHelpCommand lists whatever list returns at call time, so it can be
// registered in the same router it describes.
func NewHelpCommand(list func() []core.Command) *HelpCommand {
	return &HelpCommand{
		list:      list,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, userID string, args []string) (core.Reply, error) {
	var items []string
	for _, cmd := range c.list() {
		items = append(items, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}
	return core.TextReply(c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("send an enrollment id, a full student name or `teacher <name>`"),
	)), nil
}
