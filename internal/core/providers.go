package core

import "context"

// ChatModel produces the assistant reply for a system context plus the
// session's recent history. The newest history entry is the user's current
// input.
type ChatModel interface {
	Chat(ctx context.Context, system string, history []Message) (string, error)
}

// Transcriber turns a voice recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// VisionModel describes an image, steered by the user's caption when one
// was provided.
type VisionModel interface {
	DescribeImage(ctx context.Context, image []byte, prompt string) (string, error)
}

// Summarizer produces a short summary of extracted document text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SpeechSynthesizer renders reply text as audio for voice responses.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
