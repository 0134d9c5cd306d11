package textutil

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// CountTokens reports the cl100k_base token count of text.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(getTokenizer().Encode(text, nil, nil))
}

// TruncateTokens cuts text down to at most maxTokens tokens. When something
// was dropped the result ends with an ellipsis so a model prompt shows the
// text is partial.
func TruncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	enc := getTokenizer()
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return strings.TrimSpace(enc.Decode(tokens[:maxTokens])) + "..."
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
