package serper

import (
	"fmt"
	"strings"
)

// FormatWeb renders web search results as a Telegram-ready message.
func FormatWeb(resp *Response) string {
	if resp == nil || len(resp.Results) == 0 {
		return "❌ Web search failed: No results found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌐 Web search results for: '%s'\n\n", resp.Query)

	if kg := resp.Knowledge; kg != nil {
		fmt.Fprintf(&b, "💡 **%s** (%s)\n", kg.Title, kg.Type)
		fmt.Fprintf(&b, "   %s\n\n", kg.Description)
	}

	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.Title)
		fmt.Fprintf(&b, "   %s\n", r.Snippet)
		fmt.Fprintf(&b, "   🔗 %s\n\n", r.Link)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatNews renders news search results as a Telegram-ready message.
func FormatNews(resp *Response) string {
	if resp == nil || len(resp.Results) == 0 {
		return "❌ News search failed: No results found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📰 News results for: '%s'\n\n", resp.Query)

	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.Title)
		fmt.Fprintf(&b, "   %s\n", r.Snippet)
		if r.Date != "" {
			fmt.Fprintf(&b, "   📅 %s\n", r.Date)
		}
		fmt.Fprintf(&b, "   🔗 %s\n\n", r.Link)
	}

	return strings.TrimRight(b.String(), "\n")
}
