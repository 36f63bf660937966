package gemini

import (
	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// An Opt sets a default generation parameter on a model handle
type Opt func(*GenerativeModel) error

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - SET OPTIONS

// Replace the whole generation configuration
func WithGenerationConfig(config *schema.GenerationConfig) Opt {
	return func(m *GenerativeModel) error {
		m.generation = config
		return nil
	}
}

// The temperature of the model. Increasing the temperature will make the
// model answer more creatively.
func WithTemperature(v float64) Opt {
	return func(m *GenerativeModel) error {
		if v < 0.0 || v > 2.0 {
			return ErrClient.With("temperature must be between 0.0 and 2.0")
		}
		m.config().Temperature = types.Ptr(v)
		return nil
	}
}

// Works together with top-k. A higher value (e.g., 0.95) will lead to more
// diverse text, while a lower value (e.g., 0.5) will generate more focused
// and conservative text.
func WithTopP(v float64) Opt {
	return func(m *GenerativeModel) error {
		if v < 0.0 || v > 1.0 {
			return ErrClient.With("top_p must be between 0.0 and 1.0")
		}
		m.config().TopP = types.Ptr(v)
		return nil
	}
}

// Sample from the k most likely next tokens at each step
func WithTopK(v int) Opt {
	return func(m *GenerativeModel) error {
		if v < 1 {
			return ErrClient.With("top_k must be at least 1")
		}
		m.config().TopK = types.Ptr(v)
		return nil
	}
}

// The maximum number of tokens to generate in each candidate
func WithMaxOutputTokens(v int) Opt {
	return func(m *GenerativeModel) error {
		if v < 1 {
			return ErrClient.With("max_output_tokens must be at least 1")
		}
		m.config().MaxOutputTokens = types.Ptr(v)
		return nil
	}
}

// Number of candidates to return for each request
func WithCandidateCount(v int) Opt {
	return func(m *GenerativeModel) error {
		if v < 1 || v > 8 {
			return ErrClient.With("candidate_count must be between 1 and 8")
		}
		m.config().CandidateCount = types.Ptr(v)
		return nil
	}
}

// Stop generating when any of the sequences is produced
func WithStopSequences(v ...string) Opt {
	return func(m *GenerativeModel) error {
		m.config().StopSequences = v
		return nil
	}
}

// Request a response with the given MIME type, for example application/json
func WithResponseMIMEType(v string) Opt {
	return func(m *GenerativeModel) error {
		if v == "" {
			return ErrClient.With("response MIME type is empty")
		}
		m.config().ResponseMIMEType = v
		return nil
	}
}

// Request a JSON response conforming to the given schema
func WithResponseSchema(v *jsonschema.Schema) Opt {
	return func(m *GenerativeModel) error {
		if v == nil {
			return ErrClient.With("response schema is nil")
		}
		config := m.config()
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = v
		return nil
	}
}

// Set the system instruction for the model
func WithSystemInstruction(text string) Opt {
	return func(m *GenerativeModel) error {
		m.system = &schema.Content{Parts: []*schema.Part{schema.NewTextPart(text)}}
		return nil
	}
}

// Set the safety settings, replacing any existing ones
func WithSafetySettings(settings ...*schema.SafetySetting) Opt {
	return func(m *GenerativeModel) error {
		m.safety = settings
		return nil
	}
}

// Set the tools available to the model, replacing any existing ones
func WithTools(tools ...*schema.Tool) Opt {
	return func(m *GenerativeModel) error {
		m.tools = tools
		return nil
	}
}

// Declare callable functions, wrapped in a single tool
func WithFunctionDeclarations(declarations ...*schema.FunctionDeclaration) Opt {
	return func(m *GenerativeModel) error {
		for _, declaration := range declarations {
			if declaration == nil {
				return ErrClient.With("function declaration required")
			}
			if !schema.IsFunctionName(declaration.Name) {
				return ErrClient.Withf("invalid function declaration name %q", declaration.Name)
			}
		}
		m.tools = []*schema.Tool{{FunctionDeclarations: declarations}}
		return nil
	}
}

// Set the function calling mode, optionally restricted to the named
// functions (mode ANY only)
func WithFunctionCallingMode(mode schema.FunctionCallingMode, names ...string) Opt {
	return func(m *GenerativeModel) error {
		switch mode {
		case schema.FunctionCallingAuto, schema.FunctionCallingAny, schema.FunctionCallingNone:
			m.toolConfig = &schema.ToolConfig{
				FunctionCallingConfig: &schema.FunctionCallingConfig{
					Mode:                 mode,
					AllowedFunctionNames: names,
				},
			}
			return nil
		default:
			return ErrClient.Withf("invalid function calling mode %q", mode)
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// config returns the generation configuration, creating it if needed
func (m *GenerativeModel) config() *schema.GenerationConfig {
	if m.generation == nil {
		m.generation = new(schema.GenerationConfig)
	}
	return m.generation
}
