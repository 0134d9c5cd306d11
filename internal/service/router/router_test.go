package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sandevgo/wizzybot/internal/core"
)

type fakeHistory struct {
	msgs       map[string][]core.Message
	failAppend bool
	failRead   bool
}

func (f *fakeHistory) History(ctx context.Context, sessionID string) []core.Message {
	if f.failRead {
		return nil
	}
	return f.msgs[sessionID]
}

func (f *fakeHistory) Append(ctx context.Context, sessionID, role, content, userName string) error {
	if f.failAppend {
		return errors.New("disk full")
	}
	f.msgs[sessionID] = append(f.msgs[sessionID], core.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
	return nil
}

type fakeDocs struct {
	stored *core.Document
	fail   bool
}

func (f *fakeDocs) Store(ctx context.Context, doc core.Document) bool {
	if f.fail {
		return false
	}
	f.stored = &doc
	return true
}

type fakeRegistry struct {
	touched []string
}

func (f *fakeRegistry) Touch(ctx context.Context, sessionID, userName string) {
	f.touched = append(f.touched, sessionID)
}

type fakeContext struct{}

func (fakeContext) SystemContext(ctx context.Context, sessionID, userName string) string {
	return "system context"
}

type fakeChat struct {
	reply     string
	err       error
	gotSystem string
	gotMsgs   []core.Message
	calls     int
}

func (f *fakeChat) Chat(ctx context.Context, system string, history []core.Message) (string, error) {
	f.calls++
	f.gotSystem = system
	f.gotMsgs = history
	return f.reply, f.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.text, f.err
}

type fakeVision struct {
	description string
	err         error
	gotPrompt   string
}

func (f *fakeVision) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	f.gotPrompt = prompt
	return f.description, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return f.summary, f.err
}

type fakeSpeech struct {
	audio    []byte
	err      error
	gotText  string
	calls    int
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	f.gotText = text
	return f.audio, f.err
}

type fakeFiles struct {
	data map[string][]byte
	err  error
}

func (f *fakeFiles) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file %s", fileID)
	}
	return data, nil
}

type fakeCommands struct {
	reply string
}

func (f *fakeCommands) Execute(ctx context.Context, sessionID, userName, input string) (string, bool) {
	if len(input) > 0 && input[0] == '/' {
		return f.reply, true
	}
	return "", false
}

func (f *fakeCommands) ListCommands() []core.Command { return nil }

type harness struct {
	router      *Router
	history     *fakeHistory
	docs        *fakeDocs
	registry    *fakeRegistry
	chat        *fakeChat
	transcriber *fakeTranscriber
	vision      *fakeVision
	summarizer  *fakeSummarizer
	speech      *fakeSpeech
	files       *fakeFiles
}

func newHarness() *harness {
	h := &harness{
		history:     &fakeHistory{msgs: make(map[string][]core.Message)},
		docs:        &fakeDocs{},
		registry:    &fakeRegistry{},
		chat:        &fakeChat{reply: "model reply"},
		transcriber: &fakeTranscriber{text: "transcribed words"},
		vision:      &fakeVision{description: "A cat on a chair."},
		summarizer:  &fakeSummarizer{summary: "A short report."},
		speech:      &fakeSpeech{audio: []byte("mp3-bytes")},
		files:       &fakeFiles{data: map[string][]byte{}},
	}
	h.router = New(Deps{
		History:          h.history,
		Documents:        h.docs,
		Registry:         h.registry,
		Context:          fakeContext{},
		Chat:             h.chat,
		Transcriber:      h.transcriber,
		Vision:           h.vision,
		Summarizer:       h.summarizer,
		Speech:           h.speech,
		Files:            h.files,
		Commands:         &fakeCommands{reply: "command done"},
		MaxDocumentBytes: 20 << 20,
	})
	return h
}

func textInbound(text string) Inbound {
	return Inbound{Kind: KindText, SessionID: "42", UserName: "Alice", Text: text}
}

func TestHandleTextRepliesAndPersists(t *testing.T) {
	h := newHarness()

	out := h.router.Handle(context.Background(), textInbound("hello"))

	assert.Equal(t, "model reply", out.Text)
	assert.Nil(t, out.Voice)
	assert.Equal(t, "system context", h.chat.gotSystem)

	msgs := h.history.msgs["42"]
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleHuman, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, core.RoleAI, msgs[1].Role)
	assert.Equal(t, "model reply", msgs[1].Content)

	// The completion saw the freshly appended user message.
	require.Len(t, h.chat.gotMsgs, 1)
	assert.Equal(t, "hello", h.chat.gotMsgs[0].Content)
}

func TestHandleTextInterceptsCommands(t *testing.T) {
	h := newHarness()

	out := h.router.Handle(context.Background(), textInbound("/clear"))

	assert.Equal(t, "command done", out.Text)
	assert.Empty(t, h.history.msgs["42"])
	assert.Zero(t, h.chat.calls)
}

func TestHandleTextChatFailure(t *testing.T) {
	h := newHarness()
	h.chat.err = errors.New("model unavailable")

	out := h.router.Handle(context.Background(), textInbound("hello"))

	assert.Equal(t, apologyText, out.Text)
	// The user message stays persisted even when the completion fails.
	require.Len(t, h.history.msgs["42"], 1)
}

func TestHandleTextAppendFailure(t *testing.T) {
	h := newHarness()
	h.history.failAppend = true

	out := h.router.Handle(context.Background(), textInbound("hello"))

	assert.Equal(t, apologyText, out.Text)
	assert.Zero(t, h.chat.calls)
}

func TestHandleTextHistoryReadFailure(t *testing.T) {
	h := newHarness()
	h.history.failRead = true

	out := h.router.Handle(context.Background(), textInbound("hello"))

	assert.Equal(t, "model reply", out.Text)
	require.Len(t, h.chat.gotMsgs, 1)
	assert.Equal(t, "hello", h.chat.gotMsgs[0].Content)
}

func TestHandleTextBlankMessage(t *testing.T) {
	h := newHarness()

	out := h.router.Handle(context.Background(), textInbound("   "))

	assert.Equal(t, apologyText, out.Text)
	assert.Zero(t, h.chat.calls)
}

func TestHandleVoiceRepliesWithAudio(t *testing.T) {
	h := newHarness()
	h.files.data["voice-1"] = []byte("ogg-bytes")
	h.chat.reply = "**loud** reply"

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindVoice, SessionID: "42", UserName: "Alice", FileID: "voice-1",
	})

	assert.Equal(t, "**loud** reply", out.Text)
	assert.Equal(t, []byte("mp3-bytes"), out.Voice)
	// Markdown is flattened before synthesis.
	assert.Equal(t, "loud reply", h.speech.gotText)

	msgs := h.history.msgs["42"]
	require.Len(t, msgs, 2)
	assert.Equal(t, "transcribed words", msgs[0].Content)
}

func TestHandleVoiceSynthesisFailureFallsBackToText(t *testing.T) {
	h := newHarness()
	h.files.data["voice-1"] = []byte("ogg-bytes")
	h.speech.err = errors.New("tts down")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindVoice, SessionID: "42", FileID: "voice-1",
	})

	assert.Equal(t, "model reply", out.Text)
	assert.Nil(t, out.Voice)
}

func TestHandleVoiceWithoutSynthesizer(t *testing.T) {
	h := newHarness()
	h.files.data["voice-1"] = []byte("ogg-bytes")
	h.router.deps.Speech = nil

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindVoice, SessionID: "42", FileID: "voice-1",
	})

	assert.Equal(t, "model reply", out.Text)
	assert.Nil(t, out.Voice)
}

func TestHandleVoiceTranscriptionFailure(t *testing.T) {
	h := newHarness()
	h.files.data["voice-1"] = []byte("ogg-bytes")
	h.transcriber.err = errors.New("bad audio")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindVoice, SessionID: "42", FileID: "voice-1",
	})

	// Voice conversations get voiced apologies too.
	assert.Equal(t, apologyVoice, out.Text)
	assert.Equal(t, []byte("mp3-bytes"), out.Voice)
	assert.Empty(t, h.history.msgs["42"])
}

func TestHandlePhotoComposesPrompt(t *testing.T) {
	h := newHarness()
	h.files.data["photo-1"] = []byte("jpeg-bytes")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindPhoto, SessionID: "42", UserName: "Alice", FileID: "photo-1", Text: "what breed is this?",
	})

	assert.Equal(t, "model reply", out.Text)
	assert.Equal(t, "what breed is this?", h.vision.gotPrompt)

	msgs := h.history.msgs["42"]
	require.Len(t, msgs, 2)
	want := "# The user provided the following image and text.\n\n## Image Description:\nA cat on a chair.\n\n## User Message:\nwhat breed is this?"
	assert.Equal(t, want, msgs[0].Content)
}

func TestHandlePhotoWithoutCaption(t *testing.T) {
	h := newHarness()
	h.files.data["photo-1"] = []byte("jpeg-bytes")

	h.router.Handle(context.Background(), Inbound{
		Kind: KindPhoto, SessionID: "42", FileID: "photo-1",
	})

	assert.Equal(t, "Describe this image in detail.", h.vision.gotPrompt)
	msgs := h.history.msgs["42"]
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Content, "## User Message:\nDescribe this image in detail.")
}

func TestHandlePhotoVisionFailure(t *testing.T) {
	h := newHarness()
	h.files.data["photo-1"] = []byte("jpeg-bytes")
	h.vision.err = errors.New("vision down")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindPhoto, SessionID: "42", FileID: "photo-1",
	})

	assert.Equal(t, apologyImage, out.Text)
	assert.Empty(t, h.history.msgs["42"])
}

func TestHandleDocumentStoresContext(t *testing.T) {
	h := newHarness()
	h.files.data["doc-1"] = []byte("quarterly numbers look fine")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindDocument, SessionID: "42", UserName: "Alice",
		FileID: "doc-1", FileName: "report.txt", FileSize: 27,
	})

	require.NotNil(t, h.docs.stored)
	assert.Equal(t, "42", h.docs.stored.SessionID)
	assert.Equal(t, "report.txt", h.docs.stored.Filename)
	assert.Equal(t, "quarterly numbers look fine", h.docs.stored.Content)
	assert.Equal(t, "A short report.", h.docs.stored.Summary)
	assert.Equal(t, "txt", h.docs.stored.FileType)

	assert.Contains(t, out.Text, "📄 Great! I've processed your document 'report.txt'")
	assert.Contains(t, out.Text, "📝 **Summary:** A short report.")

	// Uploads register the interaction but never enter the chat flow.
	assert.Equal(t, []string{"42"}, h.registry.touched)
	assert.Empty(t, h.history.msgs["42"])
	assert.Zero(t, h.chat.calls)
}

func TestHandleDocumentSummaryFallback(t *testing.T) {
	h := newHarness()
	h.files.data["doc-1"] = []byte("one two three four")
	h.summarizer.err = errors.New("model down")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindDocument, SessionID: "42", FileID: "doc-1", FileName: "notes.txt", FileSize: 18,
	})

	assert.Contains(t, out.Text, "Document with 4 words uploaded.")
	require.NotNil(t, h.docs.stored)
	assert.Equal(t, "Document with 4 words uploaded.", h.docs.stored.Summary)
}

func TestHandleDocumentTooLarge(t *testing.T) {
	h := newHarness()

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindDocument, SessionID: "42", FileID: "doc-1", FileName: "big.pdf", FileSize: 21 << 20,
	})

	assert.Equal(t, "Sorry, the document is too large. Please upload files smaller than 20MB.", out.Text)
	assert.Nil(t, h.docs.stored)
}

func TestHandleDocumentUnsupportedFormat(t *testing.T) {
	h := newHarness()
	h.files.data["doc-1"] = []byte("binary")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindDocument, SessionID: "42", FileID: "doc-1", FileName: "sheet.xlsx", FileSize: 6,
	})

	assert.Contains(t, out.Text, "Unsupported document format: .xlsx")
	assert.Nil(t, h.docs.stored)
}

func TestHandleDocumentEmptyText(t *testing.T) {
	h := newHarness()
	h.files.data["doc-1"] = []byte("   \n  ")

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindDocument, SessionID: "42", FileID: "doc-1", FileName: "blank.txt", FileSize: 6,
	})

	assert.Contains(t, out.Text, "couldn't extract any text from blank.txt")
	assert.Nil(t, h.docs.stored)
}

func TestHandleDocumentStoreFailure(t *testing.T) {
	h := newHarness()
	h.files.data["doc-1"] = []byte("fine content")
	h.docs.fail = true

	out := h.router.Handle(context.Background(), Inbound{
		Kind: KindDocument, SessionID: "42", FileID: "doc-1", FileName: "report.txt", FileSize: 12,
	})

	assert.Contains(t, out.Text, "Sorry, I encountered an error processing report.txt")
}

func TestHandleMissingSession(t *testing.T) {
	h := newHarness()

	out := h.router.Handle(context.Background(), Inbound{Kind: KindText, Text: "hi"})

	assert.Equal(t, apologyGeneric, out.Text)
}

func TestHandleUnknownKind(t *testing.T) {
	h := newHarness()

	out := h.router.Handle(context.Background(), Inbound{Kind: "sticker", SessionID: "42"})

	assert.Equal(t, apologyGeneric, out.Text)
}
