package command

import (
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/resolver"
)

// NewRouter registers every slash command.
func NewRouter(mem core.Memory, res *resolver.Resolver) *Router {
	r := New([]core.Command{
		NewStartCommand(mem),
		NewResetCommand(mem),
		NewStatsCommand(res.Data()),
		NewTeachersCommand(res),
	})
	help := NewHelpCommand(r.ListCommands)
	r.byName[help.Name()] = help
	return r
}
