package command

import (
	"context"
	"fmt"
)

type ClearCommand struct {
	history   HistoryStore
	docs      DocumentStore
	formatter *ResponseFormatter
}

func NewClearCommand(history HistoryStore, docs DocumentStore) *ClearCommand {
	return &ClearCommand{
		history:   history,
		docs:      docs,
		formatter: NewResponseFormatter(),
	}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Clear conversation history"
}

func (c *ClearCommand) Execute(ctx context.Context, sessionID, userName string, args []string) (string, error) {
	if err := c.history.Clear(ctx, sessionID); err != nil {
		return "", fmt.Errorf("failed to clear history: %w", err)
	}

	msg := "Conversation history cleared. Fresh start!"
	if c.docs.Delete(ctx, sessionID) {
		msg = "Conversation history and document context cleared. Fresh start!"
	}
	return c.formatter.Success(msg), nil
}
