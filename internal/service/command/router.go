package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/wizzybot/internal/core"
)

type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[strings.ToLower(cmd.Name())] = cmd
	}
	return c
}

func (c *Router) Execute(ctx context.Context, sessionID, userName, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", false
	}

	name := strings.TrimPrefix(parts[0], "/")
	// Group chats address commands as /name@BotName.
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	args := parts[1:]

	cmd, ok := c.commands[strings.ToLower(name)]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, userName, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	return res
}
