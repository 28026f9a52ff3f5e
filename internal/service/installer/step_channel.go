package installer

import (
	"strconv"
	"strings"
)

func NewChannelStep() Step {
	return &SelectStep{
		title: "Where should GradeBot chat",
		choices: []choice{
			{label: "Terminal only", apply: func(s *InstallState) {
				s.App.EnableCLI, s.App.EnableTelegram = true, false
			}},
			{label: "Telegram only", apply: func(s *InstallState) {
				s.App.EnableCLI, s.App.EnableTelegram = false, true
			}},
			{label: "Telegram and terminal", apply: func(s *InstallState) {
				s.App.EnableCLI, s.App.EnableTelegram = true, true
			}},
		},
	}
}

func NewTelegramSteps() []Step {
	noTelegram := skipWhen(func(s *InstallState) bool { return !s.App.EnableTelegram })

	return []Step{
		newInputStep("Telegram bot token", "123456789:ABCDEF...", func(s *InstallState, val string) error {
			s.Telegram.Token = val
			return nil
		}, secret(), noTelegram),

		newInputStep("Allowed Telegram user ids, comma separated", "everyone", func(s *InstallState, val string) error {
			ids, err := parseUserIDs(val)
			if err != nil {
				return err
			}
			s.Telegram.AllowedUsers = ids
			return nil
		}, optional(), noTelegram),
	}
}

func parseUserIDs(val string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
