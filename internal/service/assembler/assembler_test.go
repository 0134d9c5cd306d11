package assembler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/wizzybot/internal/core"
)

type fakeDocSource struct {
	doc *core.Document
}

func (f *fakeDocSource) Get(_ context.Context, _ string) *core.Document {
	return f.doc
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
}

func TestSystemContext_WithoutDocument(t *testing.T) {
	a := New(&fakeDocSource{}, fixedClock)

	got := a.SystemContext(context.Background(), "s1", "Alice")

	assert.Contains(t, got, "You are a helpful assistant called Wizzy.")
	assert.Contains(t, got, "You are currently talking to Alice.")
	assert.Contains(t, got, "The current date and time is 2025-06-01T12:30:00Z")
	assert.NotContains(t, got, "Document Context Available")
}

func TestSystemContext_WithDocument(t *testing.T) {
	a := New(&fakeDocSource{doc: &core.Document{
		Filename: "report.pdf",
		Summary:  "Quarterly numbers.",
	}}, fixedClock)

	got := a.SystemContext(context.Background(), "s1", "Alice")

	assert.Contains(t, got, "## Document Context Available:")
	assert.Contains(t, got, "The user has uploaded a document: report.pdf")
	assert.Contains(t, got, "Document summary: Quarterly numbers.")
	assert.True(t, strings.Index(got, "Wizzy") < strings.Index(got, "Document Context"),
		"persona must come before the document block")
}

func TestSystemContext_EmptySummaryFallback(t *testing.T) {
	a := New(&fakeDocSource{doc: &core.Document{Filename: "notes.txt"}}, fixedClock)

	got := a.SystemContext(context.Background(), "s1", "Alice")

	assert.Contains(t, got, "Document summary: Content available for discussion")
}

func TestSystemContext_TimeTracksClock(t *testing.T) {
	now := fixedClock()
	a := New(&fakeDocSource{}, func() time.Time { return now })

	first := a.SystemContext(context.Background(), "s1", "Alice")
	now = now.Add(time.Hour)
	second := a.SystemContext(context.Background(), "s1", "Alice")

	assert.NotEqual(t, first, second, "timestamp must follow the injected clock")
	assert.Contains(t, second, "13:30:00Z")
}
