package gemini

import (
	"context"
	"iter"
	"slices"
	"sync"

	// Packages
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A Chat is a multi-turn conversation with a model. It keeps the history of
// user and model turns and replays it with every message. A chat is not safe
// for concurrent use: a message sent while another is in flight is refused.
type Chat struct {
	model   *GenerativeModel
	history []*schema.Content
	busy    sync.Mutex
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// StartChat starts a conversation, optionally seeded with history. The
// history must alternate user and model turns, starting with a user turn;
// it is validated when the first message is sent.
func (m *GenerativeModel) StartChat(history ...*schema.Content) *Chat {
	return &Chat{model: m, history: history}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// History returns a copy of the conversation so far
func (chat *Chat) History() []*schema.Content {
	return slices.Clone(chat.history)
}

// SendMessage appends a user turn, sends the whole conversation and returns
// the model's reply. The exchange is added to the history only when the
// model produced a candidate.
func (chat *Chat) SendMessage(ctx context.Context, parts ...*schema.Part) (*schema.GenerateContentResponse, error) {
	if !chat.busy.TryLock() {
		return nil, ErrClient.With("previous message still in flight")
	}
	defer chat.busy.Unlock()

	content := schema.NewUserContent(parts...)
	if err := chat.validate(content); err != nil {
		return nil, err
	}

	response, err := chat.model.client.GenerateContent(ctx, chat.model.request(append(chat.History(), content)...))
	if err != nil {
		return nil, err
	}
	chat.commit(content, reply(response))
	return response, nil
}

// SendMessageStream appends a user turn, sends the whole conversation and
// returns an iterator over the reply chunks. The exchange is added to the
// history only when the stream was consumed to its end without error.
func (chat *Chat) SendMessageStream(ctx context.Context, parts ...*schema.Part) iter.Seq2[*schema.GenerateContentResponse, error] {
	return func(yield func(*schema.GenerateContentResponse, error) bool) {
		if !chat.busy.TryLock() {
			yield(nil, ErrClient.With("previous message still in flight"))
			return
		}
		defer chat.busy.Unlock()

		content := schema.NewUserContent(parts...)
		if err := chat.validate(content); err != nil {
			yield(nil, err)
			return
		}

		var replyParts []*schema.Part
		for chunk, err := range chat.model.client.GenerateContentStream(ctx, chat.model.request(append(chat.History(), content)...)) {
			if err != nil {
				yield(nil, err)
				return
			}
			if r := reply(chunk); r != nil {
				for _, part := range r.Parts {
					replyParts = mergePart(replyParts, part)
				}
			}
			if !yield(chunk, nil) {
				return
			}
		}
		if len(replyParts) > 0 {
			chat.commit(content, schema.NewModelContent(replyParts...))
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// validate checks that the history plus the next turn alternates user and
// model roles, starting with a user turn
func (chat *Chat) validate(next *schema.Content) error {
	turns := append(chat.History(), next)
	for i, content := range turns {
		want := schema.RoleUser
		if i%2 == 1 {
			want = schema.RoleModel
		}
		if content == nil || content.Role != want {
			return ErrClient.Withf("chat turn %d must have role %q", i, want)
		}
		if len(content.Parts) == 0 {
			return ErrClient.Withf("chat turn %d has no parts", i)
		}
	}
	return nil
}

// commit appends the exchange to the history when a reply exists
func (chat *Chat) commit(user, model *schema.Content) {
	if model != nil {
		chat.history = append(chat.history, user, model)
	}
}

// reply returns the first candidate content with the model role, or nil
// when the response has no candidate content
func reply(response *schema.GenerateContentResponse) *schema.Content {
	if response == nil || len(response.Candidates) == 0 {
		return nil
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil
	}
	return &schema.Content{Parts: content.Parts, Role: schema.RoleModel}
}

// mergePart appends a part, folding consecutive text parts together
func mergePart(parts []*schema.Part, part *schema.Part) []*schema.Part {
	if part == nil {
		return parts
	}
	if part.Text != nil && len(parts) > 0 {
		if last := parts[len(parts)-1]; last.Text != nil {
			last.Text = types.Ptr(*last.Text + *part.Text)
			return parts
		}
	}
	clone := *part
	return append(parts, &clone)
}
