// Package prompt reads reusable generation presets from YAML documents.
// A preset names a model, a system instruction and generation parameters,
// and may carry a Go template which renders the user message from a set
// of validated inputs.
package prompt

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"text/template"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	gemini "github.com/mutablelogic/go-gemini"
	types "github.com/mutablelogic/go-server/pkg/types"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A Prompt is a generation preset. All fields are optional except Name.
type Prompt struct {
	Name            string   `yaml:"name" json:"name"`
	Description     string   `yaml:"description" json:"description,omitempty"`
	Model           string   `yaml:"model" json:"model,omitempty"`
	System          string   `yaml:"system" json:"system,omitempty"`
	Template        string   `yaml:"template" json:"template,omitempty"`
	Temperature     *float64 `yaml:"temperature" json:"temperature,omitempty"`
	TopP            *float64 `yaml:"top_p" json:"top_p,omitempty"`
	TopK            *int     `yaml:"top_k" json:"top_k,omitempty"`
	MaxOutputTokens *int     `yaml:"max_output_tokens" json:"max_output_tokens,omitempty"`
	StopSequences   []string `yaml:"stop_sequences" json:"stop_sequences,omitempty"`
	Input           *Schema  `yaml:"input" json:"input,omitempty"`
	ResponseSchema  *Schema  `yaml:"response_schema" json:"response_schema,omitempty"`
}

// Schema is a JSON schema which can be read from both YAML and JSON
// documents. When read from YAML, the node is first decoded to a native
// value and then remarshalled as JSON.
type Schema struct {
	*jsonschema.Schema
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Read parses a prompt from a YAML document
func Read(r io.Reader) (*Prompt, error) {
	var prompt Prompt
	if err := yaml.NewDecoder(r).Decode(&prompt); err != nil {
		return nil, gemini.ErrClient.Withf("prompt: %v", err)
	}
	if prompt.Name == "" {
		return nil, gemini.ErrClient.With("prompt: missing name")
	}
	return &prompt, nil
}

// Load reads a prompt from a YAML file
func Load(path string) (*Prompt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Options returns the model options the prompt defines
func (p *Prompt) Options() []gemini.Opt {
	var opts []gemini.Opt
	if p.System != "" {
		opts = append(opts, gemini.WithSystemInstruction(p.System))
	}
	if p.Temperature != nil {
		opts = append(opts, gemini.WithTemperature(*p.Temperature))
	}
	if p.TopP != nil {
		opts = append(opts, gemini.WithTopP(*p.TopP))
	}
	if p.TopK != nil {
		opts = append(opts, gemini.WithTopK(*p.TopK))
	}
	if p.MaxOutputTokens != nil {
		opts = append(opts, gemini.WithMaxOutputTokens(*p.MaxOutputTokens))
	}
	if len(p.StopSequences) > 0 {
		opts = append(opts, gemini.WithStopSequences(p.StopSequences...))
	}
	if p.ResponseSchema != nil && p.ResponseSchema.Schema != nil {
		opts = append(opts, gemini.WithResponseSchema(p.ResponseSchema.Schema))
	}
	return opts
}

// Render validates the input against the prompt's input schema and
// executes the template with it. A prompt without a template renders to
// the empty string.
func (p *Prompt) Render(input map[string]any) (string, error) {
	data, err := p.validate(input)
	if err != nil {
		return "", err
	}
	if p.Template == "" {
		return "", nil
	}

	tmpl, err := template.New(p.Name).Funcs(funcMap()).Parse(p.Template)
	if err != nil {
		return "", gemini.ErrClient.Withf("prompt template: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", gemini.ErrClient.Withf("prompt template: %v", err)
	}
	return buf.String(), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// validate checks the input against the prompt's input schema. A prompt
// without an input schema accepts any input.
func (p *Prompt) validate(input map[string]any) (map[string]any, error) {
	if input == nil {
		input = make(map[string]any)
	}
	if p.Input == nil || p.Input.Schema == nil {
		return input, nil
	}

	resolved, err := p.Input.Schema.Resolve(nil)
	if err != nil {
		return nil, gemini.ErrClient.Withf("prompt input schema: %v", err)
	}
	if err := resolved.Validate(input); err != nil {
		return nil, gemini.ErrClient.Withf("prompt input: %v", err)
	}
	return input, nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (p Prompt) String() string {
	return types.Stringify(p)
}

///////////////////////////////////////////////////////////////////////////////
// YAML & JSON MARSHALLING

func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	schema := new(jsonschema.Schema)
	if err := json.Unmarshal(data, schema); err != nil {
		return err
	}
	s.Schema = schema
	return nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Schema == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Schema)
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	schema := new(jsonschema.Schema)
	if err := json.Unmarshal(data, schema); err != nil {
		return err
	}
	s.Schema = schema
	return nil
}
