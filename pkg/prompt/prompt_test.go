package prompt_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	prompt "github.com/mutablelogic/go-gemini/pkg/prompt"
	assert "github.com/stretchr/testify/assert"
)

func Test_prompt_001(t *testing.T) {
	// Minimal prompt needs only a name
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`name: haiku`))
	assert.NoError(err)
	assert.Equal("haiku", p.Name)
	assert.Empty(p.Options())

	_, err = prompt.Read(strings.NewReader(`model: gemini-pro`))
	assert.ErrorIs(err, gemini.ErrClient)
}

func Test_prompt_002(t *testing.T) {
	// All preset fields are read from YAML
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`
name: reviewer
description: Reviews code changes
model: gemini-2.0-flash
system: You are a careful code reviewer.
temperature: 0.2
top_p: 0.9
max_output_tokens: 1024
stop_sequences: ["DONE"]
`))
	assert.NoError(err)
	assert.Equal("reviewer", p.Name)
	assert.Equal("gemini-2.0-flash", p.Model)
	assert.Equal("You are a careful code reviewer.", p.System)
	if assert.NotNil(p.Temperature) {
		assert.Equal(0.2, *p.Temperature)
	}
	assert.Equal([]string{"DONE"}, p.StopSequences)
	assert.Len(p.Options(), 5)
}

func Test_prompt_003(t *testing.T) {
	// Template rendering with input
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`
name: greeter
template: "Hello, {{ .name }}!"
`))
	assert.NoError(err)

	text, err := p.Render(map[string]any{"name": "World"})
	assert.NoError(err)
	assert.Equal("Hello, World!", text)

	// No template renders to the empty string
	p, err = prompt.Read(strings.NewReader(`name: empty`))
	assert.NoError(err)
	text, err = p.Render(nil)
	assert.NoError(err)
	assert.Equal("", text)
}

func Test_prompt_004(t *testing.T) {
	// Input is validated against the prompt's input schema
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`
name: summary
template: "Summarise {{ .topic }}"
input:
  type: object
  required: [topic]
  properties:
    topic:
      type: string
`))
	assert.NoError(err)

	text, err := p.Render(map[string]any{"topic": "the news"})
	assert.NoError(err)
	assert.Equal("Summarise the news", text)

	_, err = p.Render(nil)
	assert.ErrorIs(err, gemini.ErrClient)

	_, err = p.Render(map[string]any{"topic": 42})
	assert.ErrorIs(err, gemini.ErrClient)
}

func Test_prompt_005(t *testing.T) {
	// Template functions: upper, default, json
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`
name: funcs
template: "{{ upper .word }} {{ default \"none\" .missing }} {{ json .list }}"
`))
	assert.NoError(err)

	text, err := p.Render(map[string]any{"word": "loud", "list": []any{1, 2}})
	assert.NoError(err)
	assert.Equal("LOUD none [1,2]", text)
}

func Test_prompt_006(t *testing.T) {
	// Prompt options apply to a model handle
	assert := assert.New(t)

	client, err := gemini.New("test-key")
	assert.NoError(err)

	p, err := prompt.Read(strings.NewReader(`
name: tuned
system: Be brief.
temperature: 0.1
top_k: 20
`))
	assert.NoError(err)

	_, err = client.GenerativeModel("gemini-pro", p.Options()...)
	assert.NoError(err)

	// Out-of-range parameters surface when the options are applied
	p, err = prompt.Read(strings.NewReader(`
name: broken
temperature: 9.0
`))
	assert.NoError(err)
	_, err = client.GenerativeModel("gemini-pro", p.Options()...)
	assert.ErrorIs(err, gemini.ErrClient)
}

func Test_prompt_007(t *testing.T) {
	// A response schema written in YAML becomes a JSON schema option
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`
name: structured
response_schema:
  type: object
  properties:
    answer:
      type: string
`))
	assert.NoError(err)
	if assert.NotNil(p.ResponseSchema) {
		assert.Equal("object", p.ResponseSchema.Type)
	}
	assert.Len(p.Options(), 1)
}

func Test_prompt_008(t *testing.T) {
	// Load reads a prompt from a file
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "haiku.yaml")
	assert.NoError(os.WriteFile(path, []byte("name: haiku\nmodel: gemini-pro\n"), 0644))

	p, err := prompt.Load(path)
	assert.NoError(err)
	assert.Equal("haiku", p.Name)
	assert.Equal("gemini-pro", p.Model)

	_, err = prompt.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)
}

func Test_prompt_009(t *testing.T) {
	// A broken template errors at render time, not read time
	assert := assert.New(t)

	p, err := prompt.Read(strings.NewReader(`
name: broken
template: "{{ .unclosed"
`))
	assert.NoError(err)

	_, err = p.Render(nil)
	assert.ErrorIs(err, gemini.ErrClient)
}
