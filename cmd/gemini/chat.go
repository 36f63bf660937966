package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	prompt "github.com/mutablelogic/go-gemini/pkg/prompt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	ui "github.com/mutablelogic/go-gemini/pkg/ui"
	bubbletea "github.com/mutablelogic/go-gemini/pkg/ui/bubbletea"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCmd struct {
	Model  string `name:"model" short:"m" help:"Model name"`
	System string `name:"system" help:"System instruction"`
	Prompt string `name:"prompt" type:"existingfile" help:"Prompt preset file (YAML)"`
}

// chatSession holds the mutable state behind the terminal: the model and
// conversation are replaced together when the user switches model or
// system instruction
type chatSession struct {
	globals *Globals
	model   *gemini.GenerativeModel
	chat    *gemini.Chat
	system  string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const chatHelp = `**Commands**

- /model [name] show or switch the model
- /system <text> set the system instruction and start a new conversation
- /clear start a new conversation
- /tokens count the tokens the conversation holds
- /help show this help
- /quit leave the chat
`

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *ChatCmd) Run(g *Globals) error {
	if _, err := g.Client(); err != nil {
		return err
	}

	// Load the prompt preset, when given
	var preset *prompt.Prompt
	var err error
	if cmd.Prompt != "" {
		if preset, err = prompt.Load(cmd.Prompt); err != nil {
			return err
		}
	}

	// The system instruction from the flag wins over the preset
	system := cmd.System
	if system == "" && preset != nil {
		system = preset.System
	}

	opts := []gemini.Opt{}
	if cmd.System != "" {
		opts = append(opts, gemini.WithSystemInstruction(cmd.System))
	}
	model, err := g.Model(cmd.Model, preset, opts...)
	if err != nil {
		return err
	}

	// Create the terminal interface
	term, err := bubbletea.New()
	if err != nil {
		return err
	}
	defer term.Close()
	term.AppendHistory("system", "Chatting with "+model.Name()+". Type /help for commands.")

	session := &chatSession{
		globals: g,
		model:   model,
		chat:    model.StartChat(),
		system:  system,
	}
	return session.run(g.ctx, term)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *chatSession) run(ctx context.Context, term *bubbletea.Terminal) error {
	for {
		event, err := term.Receive(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		} else if err != nil {
			return err
		}

		switch event.Type {
		case ui.EventText:
			s.send(ctx, event)
		case ui.EventCommand:
			if quit := s.command(ctx, event); quit {
				return nil
			}
		}
	}
}

// send streams a chat reply into the terminal
func (s *chatSession) send(ctx context.Context, event ui.Event) {
	out := event.Context
	_ = out.StreamStart(ctx)

	var streamed bool
	for response, err := range s.chat.SendMessageStream(ctx, schema.NewTextPart(event.Text)) {
		if err != nil {
			_ = out.StreamEnd(ctx)
			_ = out.SendError(ctx, err)
			return
		}
		if response.Blocked() {
			_ = out.StreamEnd(ctx)
			_ = out.SendText(ctx, "The prompt was blocked by safety filters")
			return
		}
		if text := response.Text(); text != "" {
			streamed = true
			_ = out.StreamChunk(ctx, text)
		}
	}
	_ = out.StreamEnd(ctx)

	if !streamed {
		_ = out.SendText(ctx, "No response was generated")
	}
}

// command dispatches a slash command, returning true when the session
// should end
func (s *chatSession) command(ctx context.Context, event ui.Event) bool {
	out := event.Context
	switch event.Command {
	case "quit", "exit":
		return true
	case "clear":
		s.chat = s.model.StartChat()
		out.ClearHistory()
		_ = out.SendText(ctx, "Conversation cleared")
	case "model":
		if len(event.Args) == 0 {
			_ = out.SendText(ctx, "Current model is "+s.model.Name())
		} else {
			s.reset(ctx, out, event.Args[0])
		}
	case "system":
		s.system = strings.Join(event.Args, " ")
		s.reset(ctx, out, s.model.Name())
	case "tokens":
		s.tokens(ctx, out)
	case "help":
		_ = out.SendMarkdown(ctx, chatHelp)
	default:
		_ = out.SendText(ctx, "Unknown command /"+event.Command+" (try /help)")
	}
	return false
}

// reset replaces the model and starts a fresh conversation, keeping the
// current system instruction
func (s *chatSession) reset(ctx context.Context, out ui.Context, name string) {
	opts := []gemini.Opt{}
	if s.system != "" {
		opts = append(opts, gemini.WithSystemInstruction(s.system))
	}
	model, err := s.globals.Model(name, nil, opts...)
	if err != nil {
		_ = out.SendError(ctx, err)
		return
	}
	s.model = model
	s.chat = model.StartChat()
	out.ClearHistory()
	_ = out.SendText(ctx, "Started a new conversation with "+model.Name())
}

// tokens counts the tokens held by the conversation so far
func (s *chatSession) tokens(ctx context.Context, out ui.Context) {
	history := s.chat.History()
	if len(history) == 0 {
		_ = out.SendText(ctx, "No conversation to count yet")
		return
	}

	req := schema.NewCountTokensRequest(s.globals.client.Version(), &schema.GenerateContentRequest{
		Model:    s.model.Name(),
		Contents: history,
	})
	response, err := s.globals.client.CountTokens(ctx, req)
	if err != nil {
		_ = out.SendError(ctx, err)
		return
	}
	_ = out.SendText(ctx, fmt.Sprintf("The conversation holds %d tokens", response.TotalTokens))
}
