package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	gemini "github.com/mutablelogic/go-gemini"
	prompt "github.com/mutablelogic/go-gemini/pkg/prompt"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Service
	Key        string        `name:"key" env:"GEMINI_API_KEY,GOOGLE_API_KEY" help:"API key"`
	Endpoint   string        `name:"endpoint" help:"Service endpoint URL" optional:""`
	APIVersion string        `name:"api-version" help:"Service API version (v1 or v1beta)" optional:""`
	Timeout    time.Duration `name:"timeout" help:"Request timeout" optional:""`

	// Context
	ctx    context.Context
	client *gemini.Client
	config *Config
}

type CLI struct {
	Globals

	// Commands
	Generate GenerateCmd `cmd:"" help:"Generate a response to a prompt"`
	Chat     ChatCmd     `cmd:"" help:"Start an interactive chat session"`
	Tokens   TokensCmd   `cmd:"" help:"Count the tokens a prompt consumes"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Used when no model was given and none is stored
	defaultModel = "gemini-2.0-flash"
)

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Command-line client for the Google Generative Language API"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx

	// Load stored defaults
	config, err := NewConfig("gemini")
	cmd.FatalIfErrorf(err)
	cli.Globals.config = config

	// Client options
	opts := []gemini.ClientOpt{}
	if cli.Debug || cli.Verbose {
		opts = append(opts, gemini.OptTrace(os.Stderr, cli.Verbose))
	}
	if cli.Endpoint != "" {
		opts = append(opts, gemini.OptEndpoint(cli.Endpoint))
	}
	if cli.APIVersion != "" {
		opts = append(opts, gemini.OptVersion(cli.APIVersion))
	}
	if cli.Timeout > 0 {
		opts = append(opts, gemini.OptTimeout(cli.Timeout))
	}

	// Create the client
	client, err := gemini.New(cli.Key, opts...)
	cmd.FatalIfErrorf(err)
	cli.Globals.client = client

	// Run the command, storing defaults on the way out
	err = cmd.Run(&cli.Globals)
	if closeErr := config.Close(); err == nil {
		err = closeErr
	}
	cmd.FatalIfErrorf(err)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client returns the API client, or an error when no key is set
func (g *Globals) Client() (*gemini.Client, error) {
	if g.Key == "" {
		return nil, fmt.Errorf("missing API key (set GEMINI_API_KEY or pass --key)")
	}
	return g.client, nil
}

// Model resolves the model handle for a command: an explicit model name
// wins over the prompt preset, which wins over the stored default. The
// resolved name is stored as the new default.
func (g *Globals) Model(name string, preset *prompt.Prompt, opts ...gemini.Opt) (*gemini.GenerativeModel, error) {
	if name == "" && preset != nil {
		name = preset.Model
	}
	if name == "" {
		name = g.config.Model
	}
	if name == "" {
		name = defaultModel
	}
	g.config.Model = name

	// Preset options first, so explicit options override them
	if preset != nil {
		opts = append(preset.Options(), opts...)
	}
	return g.client.GenerativeModel(name, opts...)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
