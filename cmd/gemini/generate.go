package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	prompt "github.com/mutablelogic/go-gemini/pkg/prompt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type GenerateCmd struct {
	Text        string            `arg:"" optional:"" help:"Prompt text (reads stdin when omitted)"`
	Model       string            `name:"model" short:"m" help:"Model name"`
	System      string            `name:"system" help:"System instruction"`
	Prompt      string            `name:"prompt" type:"existingfile" help:"Prompt preset file (YAML)"`
	Input       map[string]string `name:"input" help:"Values for the prompt preset template"`
	File        []string          `name:"file" short:"f" type:"existingfile" help:"Attach a file to the prompt"`
	JSON        bool              `name:"json" help:"Request a JSON response"`
	Stream      bool              `name:"stream" help:"Stream the response as it is generated"`
	Temperature *float64          `name:"temperature" help:"Sampling temperature (0.0 to 2.0)"`
	MaxTokens   *int              `name:"max-tokens" help:"Maximum number of output tokens"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *GenerateCmd) Run(g *Globals) error {
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

	// Model options from the command line, applied after any preset options
	opts := []gemini.Opt{}
	if cmd.System != "" {
		opts = append(opts, gemini.WithSystemInstruction(cmd.System))
	}
	if cmd.Temperature != nil {
		opts = append(opts, gemini.WithTemperature(*cmd.Temperature))
	}
	if cmd.MaxTokens != nil {
		opts = append(opts, gemini.WithMaxOutputTokens(*cmd.MaxTokens))
	}
	if cmd.JSON {
		opts = append(opts, gemini.WithResponseMIMEType("application/json"))
	}

	model, err := g.Model(cmd.Model, preset, opts...)
	if err != nil {
		return err
	}

	// Resolve the prompt text
	text, err := cmd.text(preset)
	if err != nil {
		return err
	}

	// Assemble the request parts
	parts := []*schema.Part{schema.NewTextPart(text)}
	for _, path := range cmd.File {
		part, err := readFile(path)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}

	if cmd.Stream {
		return cmd.stream(g, model, parts...)
	}
	return cmd.generate(g, model, parts...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// text resolves the prompt text: the argument wins, then the preset
// template, then piped stdin
func (cmd *GenerateCmd) text(preset *prompt.Prompt) (string, error) {
	if cmd.Text != "" {
		return cmd.Text, nil
	}
	if preset != nil && preset.Template != "" {
		input := make(map[string]any, len(cmd.Input))
		for k, v := range cmd.Input {
			input[k] = v
		}
		return preset.Render(input)
	}
	if !isTerminal(os.Stdin) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("missing prompt (pass text, --prompt or pipe stdin)")
}

func (cmd *GenerateCmd) generate(g *Globals, model *gemini.GenerativeModel, parts ...*schema.Part) error {
	response, err := model.GenerateContent(g.ctx, parts...)
	if err != nil {
		return err
	}
	if g.Debug {
		fmt.Fprintln(os.Stderr, response)
	}
	if response.Blocked() {
		return fmt.Errorf("prompt was blocked by safety filters")
	}
	if cmd.JSON {
		fmt.Println(response.Text())
	} else {
		printMarkdown(response.Text())
	}
	return nil
}

func (cmd *GenerateCmd) stream(g *Globals, model *gemini.GenerativeModel, parts ...*schema.Part) error {
	for response, err := range model.GenerateContentStream(g.ctx, parts...) {
		if err != nil {
			return err
		}
		if response.Blocked() {
			return fmt.Errorf("prompt was blocked by safety filters")
		}
		fmt.Print(response.Text())
	}
	fmt.Println()
	return nil
}

// readFile reads a file from disk into a request part, detecting its
// media type
func readFile(path string) (*schema.Part, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gemini.ReadPart(f)
}
