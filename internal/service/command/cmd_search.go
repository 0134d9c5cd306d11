package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/wizzybot/internal/providers/serper"
)

type SearchCommand struct {
	search    Searcher
	formatter *ResponseFormatter
}

func NewSearchCommand(search Searcher) *SearchCommand {
	return &SearchCommand{
		search:    search,
		formatter: NewResponseFormatter(),
	}
}

func (c *SearchCommand) Name() string {
	return "search"
}

func (c *SearchCommand) Description() string {
	return "Search the web"
}

func (c *SearchCommand) Execute(ctx context.Context, sessionID, userName string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Combine(
			c.formatter.Usage("/search <query>"),
			c.formatter.Examples([]string{"/search best pizza in Naples"}),
		), nil
	}

	resp, err := c.search.WebSearch(ctx, strings.Join(args, " "))
	if errors.Is(err, serper.ErrDisabled) {
		return "🔍 Web search is not configured.", nil
	}
	if err != nil {
		return fmt.Sprintf("❌ Web search failed: %v", err), nil
	}
	return serper.FormatWeb(resp), nil
}
