package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
)

type StatsCommand struct {
	data      *dataset.Store
	formatter *ResponseFormatter
}

func NewStatsCommand(data *dataset.Store) *StatsCommand {
	return &StatsCommand{
		data:      data,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Show dataset statistics"
}

func (c *StatsCommand) Execute(ctx context.Context, userID string, args []string) (core.Reply, error) {
	if c.data == nil || c.data.IsEmpty() {
		return core.Reply{}, core.ErrDataUnavailable
	}

	s := c.data.Summary()
	return core.TextReply(c.formatter.Combine(
		c.formatter.Info("Dataset"),
		c.formatter.Label("Rows", fmt.Sprint(s.Rows)),
		c.formatter.Label("Students", fmt.Sprint(s.Students)),
		c.formatter.Label("Teachers", fmt.Sprint(s.Teachers)),
		c.formatter.Label("Programs", fmt.Sprint(s.Programs)),
		c.formatter.Label("Subjects", fmt.Sprint(s.Subjects)),
		c.formatter.Label("Grades", fmt.Sprintf("min %s · max %s · avg %s",
			s.MinGrade.Format(1), s.MaxGrade.Format(1), s.MeanGrade.Format(2))),
	)), nil
}
