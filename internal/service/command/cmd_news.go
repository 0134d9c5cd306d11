package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/wizzybot/internal/providers/serper"
)

type NewsCommand struct {
	search    Searcher
	formatter *ResponseFormatter
}

func NewNewsCommand(search Searcher) *NewsCommand {
	return &NewsCommand{
		search:    search,
		formatter: NewResponseFormatter(),
	}
}

func (c *NewsCommand) Name() string {
	return "news"
}

func (c *NewsCommand) Description() string {
	return "Search recent news"
}

func (c *NewsCommand) Execute(ctx context.Context, sessionID, userName string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Usage("/news <query>"),
			c.formatter.Examples([]string{"/news space launch"}),
		), nil
	}

	resp, err := c.search.NewsSearch(ctx, strings.Join(args, " "))
	if errors.Is(err, serper.ErrDisabled) {
		return "📰 News search is not configured.", nil
	}
	if err != nil {
		return fmt.Sprintf("❌ News search failed: %v", err), nil
	}
	return serper.FormatNews(resp), nil
}
