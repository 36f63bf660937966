package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type TokensCmd struct {
	Text  string   `arg:"" optional:"" help:"Prompt text (reads stdin when omitted)"`
	Model string   `name:"model" short:"m" help:"Model name"`
	File  []string `name:"file" short:"f" type:"existingfile" help:"Include a file in the count"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *TokensCmd) Run(g *Globals) error {
	if _, err := g.Client(); err != nil {
		return err
	}

	model, err := g.Model(cmd.Model, nil)
	if err != nil {
		return err
	}

	// Resolve the text
	text := cmd.Text
	if text == "" && !isTerminal(os.Stdin) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" && len(cmd.File) == 0 {
		return fmt.Errorf("missing prompt (pass text, --file or pipe stdin)")
	}

	// Assemble the parts
	parts := []*schema.Part{}
	if text != "" {
		parts = append(parts, schema.NewTextPart(text))
	}
	for _, path := range cmd.File {
		part, err := readFile(path)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}

	response, err := model.CountTokens(g.ctx, parts...)
	if err != nil {
		return err
	}
	if g.Debug {
		fmt.Fprintln(os.Stderr, response)
	}

	fmt.Printf("%d tokens (%s)\n", response.TotalTokens, model.Name())
	for _, modality := range response.PromptTokensDetails {
		fmt.Printf("  %s: %d\n", modality.Modality, modality.TokenCount)
	}
	return nil
}
