package command

import (
	"context"
	"fmt"
	"strconv"
)

const statsTimeLayout = "Jan 2, 2006 15:04 MST"

type StatsCommand struct {
	sessions  SessionStore
	formatter *ResponseFormatter
}

func NewStatsCommand(sessions SessionStore) *StatsCommand {
	return &StatsCommand{
		sessions:  sessions,
		formatter: NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "Show session statistics"
}

func (c *StatsCommand) Execute(ctx context.Context, sessionID, userName string, args []string) (string, error) {
	session, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session stats: %w", err)
	}
	if session == nil {
		return "I don't have any stats for you yet. Say hi first!", nil
	}

	name := session.UserName
	if name == "" {
		name = "unknown"
	}

	return c.formatter.Combine(
		c.formatter.Info("Session Stats"),
		c.formatter.Label("Name", name),
		c.formatter.Label("First seen", session.FirstInteraction.Format(statsTimeLayout)),
		c.formatter.Label("Last active", session.LastInteraction.Format(statsTimeLayout)),
		c.formatter.Label("Messages", strconv.FormatInt(session.TotalMessages, 10)),
	), nil
}
