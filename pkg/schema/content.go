package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES - CONTENT & PARTS

// Content is a single message turn: an ordered list of parts together with
// the role of its producer. Treat a Content as immutable once constructed.
type Content struct {
	Parts []*Part `json:"parts"`
	Role  string  `json:"role,omitempty"` // "user" or "model"
}

// Part is a single unit of content within a turn.
// Exactly one of the fields should be non-nil.
type Part struct {
	Text             *string           `json:"text,omitempty"`
	InlineData       *Blob             `json:"inline_data,omitempty"`
	FileData         *FileData         `json:"file_data,omitempty"`
	FunctionCall     *FunctionCall     `json:"function_call,omitempty"`
	FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
}

// Blob carries inline media bytes. Data is base64-encoded on the wire.
type Blob struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// FileData references media by URI instead of carrying the bytes inline.
type FileData struct {
	MIMEType string `json:"mime_type,omitempty"`
	FileURI  string `json:"file_uri"`
}

// FunctionCall is the model's request to invoke a declared function.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse is the client-supplied result of a function invocation.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// partKeys are the wire keys of the Part union
var partKeys = []string{"text", "inline_data", "file_data", "function_call", "function_response"}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTextContent creates a Content with a single text part
func NewTextContent(role, text string) *Content {
	return &Content{
		Role:  role,
		Parts: []*Part{NewTextPart(text)},
	}
}

// NewUserContent creates a Content with the user role
func NewUserContent(parts ...*Part) *Content {
	return &Content{Role: RoleUser, Parts: parts}
}

// NewModelContent creates a Content with the model role
func NewModelContent(parts ...*Part) *Content {
	return &Content{Role: RoleModel, Parts: parts}
}

// NewTextPart creates a Part with text content
func NewTextPart(text string) *Part {
	return &Part{Text: types.Ptr(text)}
}

// NewDataPart creates a Part with inline binary data
func NewDataPart(mimeType string, data []byte) *Part {
	return &Part{InlineData: &Blob{MIMEType: mimeType, Data: data}}
}

// NewFilePart creates a Part referencing a file by URI
func NewFilePart(uri, mimeType string) *Part {
	return &Part{FileData: &FileData{FileURI: uri, MIMEType: mimeType}}
}

// NewFunctionCallPart creates a Part for a function call
func NewFunctionCallPart(name string, args map[string]any) *Part {
	return &Part{FunctionCall: &FunctionCall{Name: name, Args: args}}
}

// NewFunctionResponsePart creates a Part for a function result
func NewFunctionResponsePart(name string, response map[string]any) *Part {
	return &Part{FunctionResponse: &FunctionResponse{Name: name, Response: response}}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Text returns the concatenation of all text parts in the content
func (c *Content) Text() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Parts {
		if part != nil && part.Text != nil {
			b.WriteString(*part.Text)
		}
	}
	return b.String()
}

///////////////////////////////////////////////////////////////////////////////
// JSON MARSHALLING

func (p Part) MarshalJSON() ([]byte, error) {
	if keys := p.setKeys(); len(keys) != 1 {
		return nil, fmt.Errorf("part: expected exactly one of %s, got %d", strings.Join(partKeys, ", "), len(keys))
	}
	type part Part
	return json.Marshal(part(p))
}

func (p *Part) UnmarshalJSON(data []byte) error {
	type part Part
	var v part
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if keys := Part(v).setKeys(); len(keys) != 1 {
		return fmt.Errorf("part: expected exactly one of %s, got %d", strings.Join(partKeys, ", "), len(keys))
	}
	*p = Part(v)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// setKeys returns the wire keys of the union fields which are set
func (p Part) setKeys() []string {
	var keys []string
	if p.Text != nil {
		keys = append(keys, "text")
	}
	if p.InlineData != nil {
		keys = append(keys, "inline_data")
	}
	if p.FileData != nil {
		keys = append(keys, "file_data")
	}
	if p.FunctionCall != nil {
		keys = append(keys, "function_call")
	}
	if p.FunctionResponse != nil {
		keys = append(keys, "function_response")
	}
	return keys
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Content) String() string {
	return types.Stringify(c)
}

func (p Part) String() string {
	return types.Stringify(p)
}
