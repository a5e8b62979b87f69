package workspace

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quillmd/quill/internal/assistant"
)

// assistantChunkMsg carries one streamed token from the collaborator.
type assistantChunkMsg struct {
	chunk string
	ok    bool
}

type chatModel struct {
	client  *assistant.Client
	history []assistant.Message
	input   string
	reply   string
	busy    bool
	stream  <-chan string
}

func newChatModel(client *assistant.Client) chatModel {
	return chatModel{client: client}
}

// ask starts a streamed exchange about the open note. The client cancels
// any in-flight request on its own.
func (c *chatModel) ask(ctx context.Context, req assistant.Request) tea.Cmd {
	req.History = append([]assistant.Message(nil), c.history...)
	c.history = append(c.history, assistant.Message{Role: "user", Content: req.Prompt})
	c.reply = ""
	c.busy = true
	c.stream = c.client.Stream(ctx, req)
	return c.awaitChunk()
}

func (c *chatModel) awaitChunk() tea.Cmd {
	stream := c.stream
	return func() tea.Msg {
		chunk, ok := <-stream
		return assistantChunkMsg{chunk: chunk, ok: ok}
	}
}

// receive folds one chunk into the transcript, returning the command that
// waits for the next one while the stream is open.
func (c *chatModel) receive(msg assistantChunkMsg) tea.Cmd {
	if !msg.ok {
		c.busy = false
		if c.reply != "" {
			c.history = append(c.history, assistant.Message{
				Role:    "assistant",
				Content: c.reply,
			})
			c.reply = ""
		}
		return nil
	}
	c.reply += msg.chunk
	return c.awaitChunk()
}

func (c *chatModel) view(width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Assistant"))
	sb.WriteString("\n\n")

	for _, m := range c.history {
		switch m.Role {
		case "user":
			sb.WriteString(chatUserStyle.Render("you: " + m.Content))
		default:
			sb.WriteString(chatAssistantStyle.Render(m.Content))
		}
		sb.WriteString("\n\n")
	}

	if c.busy {
		sb.WriteString(chatAssistantStyle.Render(c.reply))
		sb.WriteString(faintStyle.Render("▌"))
		sb.WriteString("\n\n")
	}

	sb.WriteString(faintStyle.Render("> ") + c.input)
	return sb.String()
}
