package gemini

import (
	"context"
	"iter"

	// Packages
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A GenerativeModel is a named model together with the default generation
// parameters applied to every request made through it. Handles are cheap;
// create one per configuration rather than mutating a shared one.
type GenerativeModel struct {
	client *Client
	name   string

	generation *schema.GenerationConfig
	safety     []*schema.SafetySetting
	tools      []*schema.Tool
	toolConfig *schema.ToolConfig
	system     *schema.Content
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// GenerativeModel returns a handle on the named model, with any model
// options applied
func (c *Client) GenerativeModel(name string, opts ...Opt) (*GenerativeModel, error) {
	model := &GenerativeModel{client: c, name: name}
	for _, opt := range opts {
		if err := opt(model); err != nil {
			return nil, err
		}
	}
	return model, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the model name as given to GenerativeModel
func (m *GenerativeModel) Name() string {
	return m.name
}

// GenerateContent sends the parts as a single user turn and returns the
// model's response
func (m *GenerativeModel) GenerateContent(ctx context.Context, parts ...*schema.Part) (*schema.GenerateContentResponse, error) {
	return m.client.GenerateContent(ctx, m.request(schema.NewUserContent(parts...)))
}

// GenerateContentStream sends the parts as a single user turn and returns
// an iterator over the response chunks
func (m *GenerativeModel) GenerateContentStream(ctx context.Context, parts ...*schema.Part) iter.Seq2[*schema.GenerateContentResponse, error] {
	return m.client.GenerateContentStream(ctx, m.request(schema.NewUserContent(parts...)))
}

// CountTokens returns the number of tokens the parts would consume as a
// single user turn, including the model's configured tools and system
// instruction
func (m *GenerativeModel) CountTokens(ctx context.Context, parts ...*schema.Part) (*schema.CountTokensResponse, error) {
	request := schema.NewCountTokensRequest(m.client.Version(), m.request(schema.NewUserContent(parts...)))
	return m.client.CountTokens(ctx, request)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// request builds a generation request from the model defaults and the
// given conversation turns
func (m *GenerativeModel) request(contents ...*schema.Content) *schema.GenerateContentRequest {
	return &schema.GenerateContentRequest{
		Model:             m.name,
		Contents:          contents,
		Tools:             m.tools,
		ToolConfig:        m.toolConfig,
		SafetySettings:    m.safety,
		SystemInstruction: m.system,
		GenerationConfig:  m.generation,
	}
}
