package router

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/internal/service/docstore"
	"github.com/sandevgo/wizzybot/pkg/conv"
	"github.com/sandevgo/wizzybot/pkg/log"
	"github.com/sandevgo/wizzybot/pkg/textutil"
)

// Kind names the single payload slot an inbound update carries.
type Kind string

const (
	KindText     Kind = "text"
	KindVoice    Kind = "voice"
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
)

const (
	voiceMimeType       = "audio/ogg"
	defaultImageCaption = "Describe this image in detail."

	imagePromptTemplate = "# The user provided the following image and text.\n\n## Image Description:\n%s\n\n## User Message:\n%s"
)

const (
	apologyGeneric  = "Sorry, I encountered an error."
	apologyText     = "Sorry, I encountered an error processing your message."
	apologyVoice    = "Sorry, I couldn't process your voice message."
	apologyImage    = "Sorry, I couldn't process your image."
	apologyDocument = "Sorry, I couldn't process your document. Please try again."
)

// Inbound is one normalized update from the transport.
type Inbound struct {
	Kind      Kind
	SessionID string
	UserName  string
	// Text holds the message body for text updates and the caption for
	// photo updates.
	Text     string
	FileID   string
	FileName string
	FileSize int64
}

// Outbound is the reply the transport should deliver. When Voice is set
// the transport sends audio first and falls back to Text if that fails.
type Outbound struct {
	Text  string
	Voice []byte
}

// Deps wires the router's collaborators. Speech and Commands may be nil;
// voice replies then degrade to text and slash commands fall through to
// the conversational path.
type Deps struct {
	History          HistoryStore
	Documents        DocumentStore
	Registry         SessionRegistry
	Context          ContextBuilder
	Chat             core.ChatModel
	Transcriber      core.Transcriber
	Vision           core.VisionModel
	Summarizer       core.Summarizer
	Speech           core.SpeechSynthesizer
	Files            FileDownloader
	Commands         core.CmdRouter
	MaxDocumentBytes int64
}

// Router turns inbound updates into replies. Each update is classified
// by payload kind, voice and photo updates are reduced to text and then
// answered through the shared conversational path, document uploads are
// stored as session context without entering that path.
type Router struct {
	deps  Deps
	locks *keyedMutex
}

func New(deps Deps) *Router {
	return &Router{
		deps:  deps,
		locks: newKeyedMutex(),
	}
}

// Handle processes one update and returns the reply to deliver. It never
// returns an error; failures become short apologies so the chat surface
// stays clean.
func (r *Router) Handle(ctx context.Context, in Inbound) Outbound {
	if in.SessionID == "" {
		return Outbound{Text: apologyGeneric}
	}

	unlock := r.locks.Lock(in.SessionID)
	defer unlock()

	switch in.Kind {
	case KindVoice:
		return r.handleVoice(ctx, in)
	case KindPhoto:
		return Outbound{Text: r.handlePhoto(ctx, in)}
	case KindDocument:
		return Outbound{Text: r.handleDocument(ctx, in)}
	case KindText:
		return Outbound{Text: r.handleText(ctx, in)}
	default:
		log.FromCtx(ctx).Warn().Str("kind", string(in.Kind)).Msg("Unroutable update kind")
		return Outbound{Text: apologyGeneric}
	}
}

func (r *Router) handleText(ctx context.Context, in Inbound) string {
	if r.deps.Commands != nil {
		if reply, handled := r.deps.Commands.Execute(ctx, in.SessionID, in.UserName, in.Text); handled {
			return reply
		}
	}
	return r.respond(ctx, in.SessionID, in.UserName, in.Text)
}

func (r *Router) handleVoice(ctx context.Context, in Inbound) Outbound {
	logger := log.FromCtx(ctx)

	audio, err := r.deps.Files.DownloadFile(ctx, in.FileID)
	if err != nil {
		logger.Error().Err(err).Str("session_id", in.SessionID).Msg("Failed to download voice file")
		return r.withVoice(ctx, apologyVoice)
	}

	text, err := r.deps.Transcriber.Transcribe(ctx, audio, voiceMimeType)
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Error().Err(err).Str("session_id", in.SessionID).Msg("Voice transcription failed")
		return r.withVoice(ctx, apologyVoice)
	}

	reply := r.respond(ctx, in.SessionID, in.UserName, text)
	return r.withVoice(ctx, reply)
}

func (r *Router) handlePhoto(ctx context.Context, in Inbound) string {
	logger := log.FromCtx(ctx)

	image, err := r.deps.Files.DownloadFile(ctx, in.FileID)
	if err != nil {
		logger.Error().Err(err).Str("session_id", in.SessionID).Msg("Failed to download photo")
		return apologyImage
	}

	caption := strings.TrimSpace(in.Text)
	if caption == "" {
		caption = defaultImageCaption
	}

	description, err := r.deps.Vision.DescribeImage(ctx, image, caption)
	if err != nil {
		logger.Error().Err(err).Str("session_id", in.SessionID).Msg("Image description failed")
		return apologyImage
	}

	prompt := fmt.Sprintf(imagePromptTemplate, description, caption)
	return r.respond(ctx, in.SessionID, in.UserName, prompt)
}

func (r *Router) handleDocument(ctx context.Context, in Inbound) string {
	logger := log.FromCtx(ctx)

	// Document uploads never append messages, so the interaction has to
	// reach the registry here.
	r.deps.Registry.Touch(ctx, in.SessionID, in.UserName)

	filename := in.FileName
	if filename == "" {
		filename = "unknown_document"
	}

	if in.FileSize > r.deps.MaxDocumentBytes {
		return fmt.Sprintf("Sorry, the document is too large. Please upload files smaller than %dMB.", r.deps.MaxDocumentBytes>>20)
	}

	data, err := r.deps.Files.DownloadFile(ctx, in.FileID)
	if err != nil {
		logger.Error().Err(err).Str("session_id", in.SessionID).Str("filename", filename).Msg("Failed to download document")
		return apologyDocument
	}

	text, err := docstore.ExtractText(filename, data)
	if err != nil {
		if errors.Is(err, docstore.ErrUnsupportedType) {
			return fmt.Sprintf("Unsupported document format: %s. I support PDF, DOCX, TXT, Markdown, and HTML files.", strings.ToLower(filepath.Ext(filename)))
		}
		logger.Error().Err(err).Str("session_id", in.SessionID).Str("filename", filename).Msg("Document text extraction failed")
		return fmt.Sprintf("Sorry, I encountered an error processing %s. Please try uploading it again.", filename)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("Sorry, I couldn't extract any text from %s. The document might be empty or corrupted.", filename)
	}

	summary, err := r.deps.Summarizer.Summarize(ctx, text)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			logger.Warn().Err(err).Str("session_id", in.SessionID).Msg("Document summarization failed, using fallback")
		}
		summary = fmt.Sprintf("Document with %d words uploaded.", textutil.WordCount(text))
	}

	doc := core.Document{
		SessionID: in.SessionID,
		Filename:  filename,
		Content:   text,
		Summary:   summary,
		FileType:  strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."),
		FileSize:  in.FileSize,
	}
	if !r.deps.Documents.Store(ctx, doc) {
		return fmt.Sprintf("Sorry, I encountered an error processing %s. Please try uploading it again.", filename)
	}

	return fmt.Sprintf("📄 Great! I've processed your document '%s' and I'm ready to answer questions about it!\n\n📝 **Summary:** %s\n\nJust ask me anything about the document!", filename, summary)
}

// respond is the shared text-response path: persist the human message,
// load the visible window and ask the chat model for a reply.
func (r *Router) respond(ctx context.Context, sessionID, userName, text string) string {
	logger := log.FromCtx(ctx)

	if strings.TrimSpace(text) == "" {
		return apologyText
	}

	system := r.deps.Context.SystemContext(ctx, sessionID, userName)

	if err := r.deps.History.Append(ctx, sessionID, core.RoleHuman, text, userName); err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist user message")
		return apologyText
	}

	msgs := r.deps.History.History(ctx, sessionID)
	if len(msgs) == 0 {
		// A failed read still leaves the current message to answer.
		msgs = []core.Message{{SessionID: sessionID, Role: core.RoleHuman, Content: text}}
	}

	reply, err := r.deps.Chat.Chat(ctx, system, msgs)
	if err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Chat completion failed")
		return apologyText
	}

	if err := r.deps.History.Append(ctx, sessionID, core.RoleAI, reply, userName); err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist assistant reply")
	}
	return reply
}

// withVoice attaches synthesized speech to a reply when a synthesizer is
// wired. Markdown is flattened first so the voice doesn't read asterisks
// out loud.
func (r *Router) withVoice(ctx context.Context, reply string) Outbound {
	out := Outbound{Text: reply}
	if r.deps.Speech == nil {
		return out
	}

	speech := conv.MarkdownToPlainText([]byte(reply))
	if speech == "" {
		return out
	}

	audio, err := r.deps.Speech.Synthesize(ctx, speech)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("Speech synthesis failed, replying with text")
		return out
	}
	out.Voice = audio
	return out
}
