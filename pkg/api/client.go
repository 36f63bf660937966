/*
api implements the request controller for the Google Generative Language
REST API: URL construction, authentication headers, snake_case JSON
encoding, per-request deadlines and the mapping of failures onto typed
errors.
https://ai.google.dev/api/generate-content
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	version "github.com/mutablelogic/go-gemini/pkg/version"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client sends requests to the Generative Language service. All fields are
// fixed after construction, so a Client is safe for concurrent use.
type Client struct {
	endpoint string
	version  string
	key      string
	timeout  time.Duration
	client   *http.Client
	trace    io.Writer
	verbose  bool
	tracer   trace.Tracer
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultVersion  = "v1beta"
	DefaultTimeout  = 180 * time.Second
)

const (
	methodGenerate       = "generateContent"
	methodStreamGenerate = "streamGenerateContent"
	methodCountTokens    = "countTokens"
)

const (
	contentType     = "application/json"
	headerAPIKey    = "x-goog-api-key"
	headerAPIClient = "x-goog-api-client"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the given API key
func New(apiKey string, opts ...ClientOpt) (*Client, error) {
	c := &Client{
		endpoint: DefaultEndpoint,
		version:  DefaultVersion,
		key:      apiKey,
		timeout:  DefaultTimeout,
		client:   new(http.Client),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the API version path segment the client addresses
func (c *Client) Version() string {
	return c.version
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// url assembles {endpoint}/{version}/{model-path}:{method}
func (c *Client) url(model, method string) string {
	return c.endpoint + "/" + c.version + "/" + modelPath(model) + ":" + method
}

// modelPath returns the URL path for a model identifier. Bare names address
// the models collection; identifiers which already contain a path separator,
// such as "tunedModels/sentence-translator", are used verbatim.
func modelPath(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "models/" + model
}

// send encodes the body and executes the call. Non-2xx responses are decoded
// into typed errors. The returned cancel bounds the response body lifetime
// and must be called once the body has been consumed.
func (c *Client) send(ctx context.Context, model, method string, body any) (*http.Response, context.CancelFunc, error) {
	if model == "" {
		return nil, nil, ErrClient.With("missing model")
	}
	data, err := schema.Marshal(body)
	if err != nil {
		return nil, nil, ErrSerialization.With(err)
	}

	url := c.url(model, method)
	c.tracef("=> POST %s", url)
	c.traceBody("=>", data)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		cancel()
		return nil, nil, ErrClient.With(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerAPIKey, c.key)
	req.Header.Set(headerAPIClient, version.APIClient())

	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, wrapTransport(err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer cancel()
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		c.tracef("<= %v", resp.Status)
		c.traceBody("<=", data)
		return nil, nil, decodeStatus(resp.StatusCode, data)
	}
	return resp, cancel, nil
}

// do executes the call and decodes a single JSON response into out
func (c *Client) do(ctx context.Context, model, method string, body, out any) error {
	resp, cancel, err := c.send(ctx, model, method, body)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapTransport(err)
	}
	c.tracef("<= %v", resp.Status)
	c.traceBody("<=", data)
	if err := schema.Unmarshal(data, out); err != nil {
		return ErrSerialization.With(err)
	}
	return nil
}

// tracef writes one line to the trace writer when tracing is enabled
func (c *Client) tracef(format string, args ...any) {
	if c.trace != nil {
		fmt.Fprintf(c.trace, format+"\n", args...)
	}
}

// traceBody writes a JSON payload to the trace writer when verbose tracing
// is enabled
func (c *Client) traceBody(prefix string, data []byte) {
	if c.trace != nil && c.verbose {
		fmt.Fprintf(c.trace, "%s %s\n", prefix, string(data))
	}
}

// wrapTransport maps a transport failure onto the error taxonomy. Caller
// cancellation passes through untouched.
func wrapTransport(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.With(err)
	}
	return ErrClient.With(err)
}

// decodeStatus maps a non-2xx response onto a typed error
func decodeStatus(status int, body []byte) error {
	var wire struct {
		Error ServerError `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != (ServerError{}) {
		if wire.Error.Code == 0 {
			wire.Error.Code = status
		}
		return &wire.Error
	}
	return ErrServer.Withf("unexpected status %d", status)
}
