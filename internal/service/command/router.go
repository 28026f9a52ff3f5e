package command

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/sandevgo/gradebot/internal/core"
)

// Router dispatches slash commands by name.
type Router struct {
	byName    map[string]core.Command
	formatter *ResponseFormatter
}

var _ core.CmdRouter = (*Router)(nil)

func New(commands []core.Command) *Router {
	r := &Router{byName: make(map[string]core.Command, len(commands)), formatter: NewResponseFormatter()}
	for _, c := range commands {
		r.byName[strings.ToLower(c.Name())] = c
	}
	return r
}

// parseCommand splits "/name@bot arg1 arg2" into a lowercase name and its
// arguments. ok is false for input that is not a command.
func parseCommand(input string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return "", nil, true
	}
	// Telegram groups address commands as /name@botname.
	name, _, _ = strings.Cut(fields[0], "@")
	return strings.ToLower(name), fields[1:], true
}

// Execute runs input when it is a command. handled is false for plain text,
// which the caller routes elsewhere.
func (r *Router) Execute(ctx context.Context, userID, input string) (reply core.Reply, handled bool) {
	name, args, ok := parseCommand(input)
	if !ok {
		return core.Reply{}, false
	}

	cmd, found := r.byName[name]
	if !found {
		return core.TextReply("Unknown command: /" + name + "\nSend /help for the list."), true
	}

	reply, err := cmd.Execute(ctx, userID, args)
	if err != nil {
		return core.TextReply(r.formatter.Error(name, err)), true
	}
	return reply, true
}

// ListCommands returns the registered commands sorted by name.
func (r *Router) ListCommands() []core.Command {
	return slices.SortedFunc(maps.Values(r.byName), func(a, b core.Command) int {
		return cmp.Compare(a.Name(), b.Name())
	})
}
