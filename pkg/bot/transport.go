package bot

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Message is one inbound chat message, normalized away from any concrete
// chat platform.
type Message struct {
	// ID is the transport's message identifier, used for reactions.
	ID string

	// UserID identifies the sender.
	UserID string

	// Text is the message body. Commands start with "/".
	Text string

	// ForwardedFrom names the original sender for forwarded messages,
	// empty otherwise.
	ForwardedFrom string

	// Timestamp is the transport's origin timestamp in Unix seconds. It
	// participates in capture deduplication, so redeliveries of the same
	// message event carry the same value.
	Timestamp int64
}

// Transport is the outbound side of a chat connection. Implementations
// wrap a real chat platform; this repo ships an in-memory fake and a
// console writer.
type Transport interface {
	// SendMessage sends text and returns the new message's ID.
	SendMessage(ctx context.Context, text string) (string, error)

	// EditMessage replaces the text of a previously sent message.
	EditMessage(ctx context.Context, messageID, text string) error

	// React attaches an emoji reaction to an inbound message.
	React(ctx context.Context, messageID, emoji string) error

	// SendTyping signals that a reply is being prepared. Platforms
	// expire the indicator, so it is re-sent periodically.
	SendTyping(ctx context.Context) error
}

// MemoryTransport records outbound traffic for inspection. Thread-safe.
type MemoryTransport struct {
	mu        sync.Mutex
	sent      []string
	edits     map[string]string
	reactions map[string]string
	typing    int
	nextID    int
}

// NewMemoryTransport creates an empty in-memory transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		edits:     make(map[string]string),
		reactions: make(map[string]string),
	}
}

func (t *MemoryTransport) SendMessage(ctx context.Context, text string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.sent = append(t.sent, text)
	return fmt.Sprintf("m%d", t.nextID), nil
}

func (t *MemoryTransport) EditMessage(ctx context.Context, messageID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edits[messageID] = text
	return nil
}

func (t *MemoryTransport) React(ctx context.Context, messageID, emoji string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reactions[messageID] = emoji
	return nil
}

func (t *MemoryTransport) SendTyping(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typing++
	return nil
}

// Sent returns a copy of every message sent so far, in order.
func (t *MemoryTransport) Sent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.sent))
	copy(out, t.sent)
	return out
}

// LastSent returns the most recent sent message, or "".
func (t *MemoryTransport) LastSent() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.sent) == 0 {
		return ""
	}
	return t.sent[len(t.sent)-1]
}

// Edit returns the last edit applied to messageID, or "".
func (t *MemoryTransport) Edit(messageID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.edits[messageID]
}

// Reaction returns the reaction attached to messageID, or "".
func (t *MemoryTransport) Reaction(messageID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reactions[messageID]
}

// TypingCount returns how many typing indicators were sent.
func (t *MemoryTransport) TypingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.typing
}

// ConsoleTransport writes outbound messages to a writer. Reactions and
// typing indicators render as bracketed annotations. Used by the CLI's
// interactive mode.
type ConsoleTransport struct {
	mu     sync.Mutex
	w      io.Writer
	nextID int
}

// NewConsoleTransport creates a transport writing to w.
func NewConsoleTransport(w io.Writer) *ConsoleTransport {
	return &ConsoleTransport{w: w}
}

func (t *ConsoleTransport) SendMessage(ctx context.Context, text string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	fmt.Fprintf(t.w, "%s\n", text)
	return fmt.Sprintf("m%d", t.nextID), nil
}

func (t *ConsoleTransport) EditMessage(ctx context.Context, messageID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s\n", text)
	return nil
}

func (t *ConsoleTransport) React(ctx context.Context, messageID, emoji string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s]\n", emoji)
	return nil
}

func (t *ConsoleTransport) SendTyping(ctx context.Context) error {
	return nil
}
