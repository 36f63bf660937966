// Package ui defines the interface for interactive chat frontends.
//
// Implementations of [ChatUI] adapt a platform to a common event-driven
// chat model: the caller loops over [ChatUI.Receive] to process user
// activity and replies through the [Context] attached to each event.
package ui

import (
	"context"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// ChatUI is the interface a chat frontend implements. It is an event
// source: callers loop over [Receive] to process incoming user activity.
type ChatUI interface {
	// Receive blocks until the next incoming event is available, the
	// context is cancelled, or the interface is closed. It returns
	// io.EOF when the interface is permanently closed.
	Receive(ctx context.Context) (Event, error)

	// Close releases resources held by the interface
	Close() error
}

// Context lets the caller respond to the conversation an event came from.
// Display roles are "user", "model", "system" and "error".
type Context interface {
	// SendText sends a plain text message
	SendText(ctx context.Context, text string) error

	// SendMarkdown sends a Markdown-formatted message, rendered as richly
	// as the platform allows
	SendMarkdown(ctx context.Context, markdown string) error

	// SendError displays an error to the user
	SendError(ctx context.Context, err error) error

	// SetTyping shows or hides a busy indicator
	SetTyping(ctx context.Context, typing bool) error

	// StreamStart begins a streaming reply. Subsequent StreamChunk calls
	// append to it and the busy indicator is shown until StreamEnd.
	StreamStart(ctx context.Context) error

	// StreamChunk appends text to the current streaming reply
	StreamChunk(ctx context.Context, text string) error

	// StreamEnd finalises the current streaming reply, re-rendering it
	// with full formatting where the platform supports it
	StreamEnd(ctx context.Context) error

	// AppendHistory adds a turn to the display without generating an
	// event, for restoring an earlier conversation
	AppendHistory(role, text string)

	// ClearHistory clears the displayed conversation
	ClearHistory()
}

///////////////////////////////////////////////////////////////////////////////
// EVENT TYPES

// EventType identifies the kind of incoming event
type EventType int

const (
	EventText    EventType = iota // User sent a text message
	EventCommand                  // User sent a slash command (e.g. /model)
)

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Event is a single piece of incoming user activity
type Event struct {
	// Type identifies what kind of event this is
	Type EventType

	// Context provides the response methods for the conversation
	Context Context

	// Text contains the message text (for EventText) or the full command
	// string including arguments (for EventCommand)
	Text string

	// Command contains the parsed command name without the leading slash
	// (for EventCommand only, e.g. "model")
	Command string

	// Args contains the parsed command arguments (for EventCommand only)
	Args []string
}
