package assembler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/wizzybot/internal/core"
)

const persona = `You are a helpful assistant called Wizzy.
Respond in a natural funny tone.
Be sarcastic when required.
Don't give very long messages.`

// DocumentSource is the document lookup the assembler needs; the docstore
// manager satisfies it.
type DocumentSource interface {
	Get(ctx context.Context, sessionID string) *core.Document
}

// Assembler renders the per-turn system context: persona, addressee, the
// current wall clock, and the session's document when one is attached.
type Assembler struct {
	docs DocumentSource
	now  core.Clock
}

func New(docs DocumentSource, now core.Clock) *Assembler {
	return &Assembler{docs: docs, now: now}
}

func (a *Assembler) SystemContext(ctx context.Context, sessionID, userName string) string {
	var sb strings.Builder

	sb.WriteString(persona)
	fmt.Fprintf(&sb, "\n\nYou are currently talking to %s.", userName)
	fmt.Fprintf(&sb, "\n\nThe current date and time is %s", a.now().Format(time.RFC3339))

	if doc := a.docs.Get(ctx, sessionID); doc != nil {
		summary := doc.Summary
		if summary == "" {
			summary = "Content available for discussion"
		}
		fmt.Fprintf(&sb, "\n\n## Document Context Available:\nThe user has uploaded a document: %s\nYou can reference and answer questions about this document.\nDocument summary: %s", doc.Filename, summary)
	}

	return sb.String()
}
