package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/wizzybot/internal/core"
)

type StartCommand struct {
	formatter *ResponseFormatter
}

func NewStartCommand() *StartCommand {
	return &StartCommand{
		formatter: NewResponseFormatter(),
	}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Introduce the bot and list commands"
}

func (c *StartCommand) Execute(ctx context.Context, sessionID, userName string, args []string) (string, error) {
	name := userName
	if name == "" {
		name = "there"
	}

	return c.formatter.Combine(
		fmt.Sprintf("👋 Hey %s! I'm **%s**.\n", name, core.BotName),
		"Send me text, voice messages, photos or documents and I'll keep up.\n",
		c.formatter.List([]string{
			"/clear - start the conversation over",
			"/stats - your session numbers",
			"/search <query> - search the web",
			"/news <query> - latest news",
		}),
		c.formatter.Tip("send me a voice message and I'll answer out loud."),
	), nil
}
