/*
gemini implements a client for the Google Generative Language REST API,
which generates text from text and media prompts. The root package
provides generative models and chat sessions. The request controller
lives in pkg/api and the request and response types in pkg/schema; most
programs only need this package.
*/
package gemini

import (
	// Packages
	api "github.com/mutablelogic/go-gemini/pkg/api"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client connects to the service and hands out model handles
type Client struct {
	*api.Client
}

// ClientOpt is an option which can be passed to New
type ClientOpt = api.ClientOpt

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Client options, re-exported so most programs only import this package
var (
	OptEndpoint   = api.OptEndpoint
	OptVersion    = api.OptVersion
	OptTimeout    = api.OptTimeout
	OptHTTPClient = api.OptHTTPClient
	OptTrace      = api.OptTrace
	OptTracer     = api.OptTracer
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client with the given API key and client options
func New(apiKey string, opts ...ClientOpt) (*Client, error) {
	client, err := api.New(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{client}, nil
}
