package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/wizzybot/internal/core"
)

const cannedReply = `{"candidates":[{"content":{"parts":[{"text":" Hello there! "}]},"finishReason":"STOP"}]}`

func newTestClient(serverURL string) *Client {
	return New(Config{BaseURL: serverURL, APIKey: "test-key", Model: "gemini-1.5-flash"})
}

func decodeRequest(t *testing.T, r *http.Request) generateRequest {
	t.Helper()
	var req generateRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestClient_Chat(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		got = decodeRequest(t, r)
		fmt.Fprint(w, cannedReply)
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Chat(context.Background(), "be nice", []core.Message{
		{Role: core.RoleHuman, Content: "hi"},
		{Role: core.RoleAI, Content: "hey"},
		{Role: core.RoleHuman, Content: "how are you"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply, "reply must be trimmed")

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be nice", got.SystemInstruction.Parts[0].Text)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "user", got.Contents[2].Role)
	assert.Equal(t, "how are you", got.Contents[2].Parts[0].Text)
}

func TestClient_ChatSkipsUnknownRoles(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		fmt.Fprint(w, cannedReply)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), "sys", []core.Message{
		{Role: core.RoleSystem, Content: "internal note"},
		{Role: core.RoleHuman, Content: "hi"},
	})
	require.NoError(t, err)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hi", got.Contents[0].Parts[0].Text)
}

func TestClient_ChatEmptyHistory(t *testing.T) {
	_, err := newTestClient("http://unused.invalid").Chat(context.Background(), "sys", nil)
	assert.Error(t, err)
}

func TestClient_Transcribe(t *testing.T) {
	audio := []byte("fake-ogg-bytes")
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"hello from voice"}]}}]}`)
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Transcribe(context.Background(), audio, "audio/ogg")
	require.NoError(t, err)
	assert.Equal(t, "hello from voice", text)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, transcribePrompt, parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "audio/ogg", parts[1].InlineData.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(audio), parts[1].InlineData.Data)
}

func TestClient_DescribeImageDefaultPrompt(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		fmt.Fprint(w, cannedReply)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DescribeImage(context.Background(), []byte("jpeg"), "  ")
	require.NoError(t, err)

	parts := got.Contents[0].Parts
	assert.Equal(t, describeImagePrompt, parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
}

func TestClient_SummarizeTruncatesInput(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = decodeRequest(t, r)
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"A summary."}]}}]}`)
	}))
	defer server.Close()

	long := strings.Repeat("lots of words in this document body ", 500)
	summary, err := newTestClient(server.URL).Summarize(context.Background(), long)
	require.NoError(t, err)
	assert.Equal(t, "A summary.", summary)

	prompt := got.Contents[0].Parts[0].Text
	assert.True(t, strings.HasPrefix(prompt, summaryPromptPrefix))
	assert.Less(t, len(prompt), len(long), "prompt must carry a truncated document")
	assert.Contains(t, prompt, "...")
}

func TestClient_ClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), "sys", []core.Message{
		{Role: core.RoleHuman, Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestClient_ServerErrorRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, cannedReply)
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Chat(context.Background(), "sys", []core.Message{
		{Role: core.RoleHuman, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_BlockedPrompt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), "sys", []core.Message{
		{Role: core.RoleHuman, Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
	assert.Equal(t, int32(1), calls.Load(), "safety blocks must not be retried")
}
