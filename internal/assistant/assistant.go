// Package assistant is the call boundary to the AI collaborator: it turns a
// note's context and a prompt into a stream of text increments. The
// collaborator being absent or failing is never an error for the caller;
// it degrades to a short in-conversation message.
package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Apology is surfaced instead of a conversation turn when no credential is
// configured.
const Apology = "The assistant isn't configured. Set an API key in the config file to start a conversation."

// DefaultEndpoint is an OpenAI-compatible chat completions URL.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Message is one prior conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything one assistant turn sees: the open note, a few
// excerpts from linked notes, the conversation so far and the new prompt.
type Request struct {
	NoteTitle      string
	NoteText       string
	LinkedExcerpts []string
	History        []Message
	Prompt         string
}

// Client streams assistant responses. A new Stream call supersedes the
// previous one: the superseded request's context is cancelled and whatever
// remains of its output is discarded by the consumer dropping the channel.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New builds a client. An empty apiKey is valid: every turn then yields the
// static apology.
func New(endpoint, model, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 5 * time.Minute},
	}
}

// Stream starts one assistant turn and returns a finite, one-shot sequence
// of text increments. The channel is closed when the turn ends, whatever
// the cause.
func (c *Client) Stream(ctx context.Context, req Request) <-chan string {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	out := make(chan string, 16)

	if c.apiKey == "" {
		go func() {
			defer close(out)
			defer cancel()
			out <- Apology
		}()
		return out
	}

	go func() {
		defer close(out)
		defer cancel()
		if err := c.stream(ctx, req, out); err != nil && ctx.Err() == nil {
			out <- fmt.Sprintf("The assistant is unavailable right now (%v).", err)
		}
	}()
	return out
}

type chatPayload struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *Client) stream(ctx context.Context, req Request, out chan<- string) error {
	payload := chatPayload{
		Model:    c.model,
		Stream:   true,
		Messages: buildMessages(req),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// A malformed chunk is skipped, not fatal.
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			select {
			case out <- choice.Delta.Content:
			case <-ctx.Done():
				return nil
			}
		}
	}
	return scanner.Err()
}

// buildMessages folds the note context into a system message ahead of the
// conversation history and the new prompt.
func buildMessages(req Request) []Message {
	var sys strings.Builder
	sys.WriteString("You are a note-taking assistant. The user is working on the note below.\n\n")
	if req.NoteTitle != "" {
		sys.WriteString("Title: " + req.NoteTitle + "\n\n")
	}
	sys.WriteString(req.NoteText)
	if len(req.LinkedExcerpts) > 0 {
		sys.WriteString("\n\nExcerpts from linked notes:\n")
		for _, excerpt := range req.LinkedExcerpts {
			sys.WriteString("- " + excerpt + "\n")
		}
	}

	messages := make([]Message, 0, len(req.History)+2)
	messages = append(messages, Message{Role: "system", Content: sys.String()})
	messages = append(messages, req.History...)
	messages = append(messages, Message{Role: "user", Content: req.Prompt})
	return messages
}
