package core

import "context"

// CmdRouter intercepts slash commands before the message router's text path.
// Execute reports handled=false when input is not a command, so the caller
// can fall through to the conversational flow.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, userName, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID, userName string, args []string) (string, error)
}
