package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, userID, input string) (Reply, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, userID string, args []string) (Reply, error)
}
