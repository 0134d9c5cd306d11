package conv

import (
	gohtml "html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank

	tgPolicy     = bluemonday.NewPolicy()
	strictPolicy = bluemonday.StrictPolicy()

	blankLines = regexp.MustCompile(`\n{3,}`)
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func render(md []byte) []byte {
	// gomarkdown parsers are single-use, build one per call.
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders markdown and strips it down to the tag set
// Telegram's HTML parse mode accepts.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(render(md)))
}

// MarkdownToPlainText flattens markdown for surfaces that cannot render
// formatting at all, such as speech synthesis input.
func MarkdownToPlainText(md []byte) string {
	stripped := strictPolicy.SanitizeBytes(render(md))
	text := gohtml.UnescapeString(string(stripped))
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
