package command

import (
	"context"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/resolver"
)

// RosterLimit caps the teacher roster shown in one reply.
const RosterLimit = 20

type TeachersCommand struct {
	resolver  *resolver.Resolver
	formatter *ResponseFormatter
}

func NewTeachersCommand(r *resolver.Resolver) *TeachersCommand {
	return &TeachersCommand{
		resolver:  r,
		formatter: NewResponseFormatter(),
	}
}

func (c *TeachersCommand) Name() string {
	return "teachers"
}

func (c *TeachersCommand) Description() string {
	return "List teachers"
}

func (c *TeachersCommand) Execute(ctx context.Context, userID string, args []string) (core.Reply, error) {
	names, rest, err := c.resolver.Roster(RosterLimit)
	if err != nil {
		return core.Reply{}, err
	}
	return core.TextReply(c.formatter.Roster(names, rest)), nil
}
