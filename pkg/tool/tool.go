// Package tool provides a registry of callable functions for use with
// function calling. Tools declare their arguments with a JSON schema and
// the toolkit validates a model's function call against that schema
// before dispatching it.
package tool

import (
	"context"
	"encoding/json"
	"slices"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Tool is a named function the model may call
type Tool interface {
	// Return the name of the tool
	Name() string

	// Return the description of the tool
	Description() string

	// Return the JSON schema for the tool arguments
	Schema() (*jsonschema.Schema, error)

	// Run the tool with the given arguments as JSON (may be nil)
	Run(ctx context.Context, args json.RawMessage) (any, error)
}

// Toolkit is a collection of tools with unique names
type Toolkit struct {
	tools map[string]Tool
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewToolkit creates a new toolkit with the given tools.
// Returns an error if any tool has an invalid or duplicate name.
func NewToolkit(tools ...Tool) (*Toolkit, error) {
	tk := &Toolkit{
		tools: make(map[string]Tool),
	}
	if err := tk.Register(tools...); err != nil {
		return nil, err
	}
	return tk, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Register adds one or more tools to the toolkit.
// Returns an error if any tool has an invalid or duplicate name.
func (tk *Toolkit) Register(tools ...Tool) error {
	for _, t := range tools {
		name := t.Name()
		if !schema.IsFunctionName(name) {
			return gemini.ErrClient.Withf("invalid tool name %q", name)
		}
		if _, exists := tk.tools[name]; exists {
			return gemini.ErrClient.Withf("duplicate tool name %q", name)
		}
		tk.tools[name] = t
	}
	return nil
}

// Tools returns all tools in the toolkit, ordered by name
func (tk *Toolkit) Tools() []Tool {
	names := make([]string, 0, len(tk.tools))
	for name := range tk.tools {
		names = append(names, name)
	}
	slices.Sort(names)

	result := make([]Tool, 0, len(names))
	for _, name := range names {
		result = append(result, tk.tools[name])
	}
	return result
}

// Lookup returns a tool by name, or nil if not found
func (tk *Toolkit) Lookup(name string) Tool {
	return tk.tools[name]
}

// Declarations returns the function declarations for all tools in the
// toolkit, for attaching to a model
func (tk *Toolkit) Declarations() ([]*schema.FunctionDeclaration, error) {
	declarations := make([]*schema.FunctionDeclaration, 0, len(tk.tools))
	for _, t := range tk.Tools() {
		s, err := t.Schema()
		if err != nil {
			return nil, gemini.ErrClient.Withf("schema for tool %q: %v", t.Name(), err)
		}
		declarations = append(declarations, &schema.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  s,
		})
	}
	return declarations, nil
}

// Run executes the function call requested by the model, validating the
// arguments against the tool schema first. It returns a part carrying the
// function response, ready to send back to the model.
func (tk *Toolkit) Run(ctx context.Context, call *schema.FunctionCall) (*schema.Part, error) {
	if call == nil {
		return nil, gemini.ErrClient.With("function call required")
	}
	tool := tk.Lookup(call.Name)
	if tool == nil {
		return nil, gemini.ErrClient.Withf("tool not found %q", call.Name)
	}

	// Validate the arguments against the schema
	s, err := tool.Schema()
	if err != nil {
		return nil, gemini.ErrClient.Withf("schema for tool %q: %v", call.Name, err)
	}
	if s != nil {
		resolved, err := s.Resolve(nil)
		if err != nil {
			return nil, gemini.ErrClient.Withf("schema for tool %q: %v", call.Name, err)
		}
		if err := resolved.Validate(call.Args); err != nil {
			return nil, gemini.ErrClient.Withf("arguments for tool %q: %v", call.Name, err)
		}
	}

	// Encode the arguments for the tool
	var args json.RawMessage
	if len(call.Args) > 0 {
		if args, err = json.Marshal(call.Args); err != nil {
			return nil, gemini.ErrClient.Withf("arguments for tool %q: %v", call.Name, err)
		}
	}

	// Run the tool
	result, err := tool.Run(ctx, args)
	if err != nil {
		return nil, err
	}
	return schema.NewFunctionResponsePart(call.Name, asObject(result)), nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (tk *Toolkit) String() string {
	declarations, err := tk.Declarations()
	if err != nil {
		return err.Error()
	}
	return types.Stringify(declarations)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// asObject reshapes a tool result into a JSON object, as function
// responses are always objects on the wire
func asObject(result any) map[string]any {
	if result == nil {
		return map[string]any{}
	}
	data, err := json.Marshal(result)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	var object map[string]any
	if err := json.Unmarshal(data, &object); err == nil {
		return object
	}

	// Not an object, so wrap the value
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"result": value}
}
