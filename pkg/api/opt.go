package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	// Packages
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ClientOpt configures the client at construction
type ClientOpt func(*Client) error

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// OptEndpoint sets the service endpoint, for tests and regional proxies
func OptEndpoint(v string) ClientOpt {
	return func(c *Client) error {
		if v == "" {
			return ErrClient.With("missing endpoint")
		}
		c.endpoint = strings.TrimSuffix(v, "/")
		return nil
	}
}

// OptVersion sets the API version path segment, "v1" or "v1beta"
func OptVersion(v string) ClientOpt {
	return func(c *Client) error {
		if v == "" {
			return ErrClient.With("missing version")
		}
		c.version = v
		return nil
	}
}

// OptTimeout sets the per-request deadline. The deadline covers the whole
// exchange, including consumption of a streaming response.
func OptTimeout(d time.Duration) ClientOpt {
	return func(c *Client) error {
		if d <= 0 {
			return ErrClient.With("invalid timeout")
		}
		c.timeout = d
		return nil
	}
}

// OptHTTPClient sets the underlying HTTP client, for tests and custom
// transports. The client should not carry its own Timeout: the per-request
// deadline is applied through the context, which unlike http.Client.Timeout
// does not cut long-lived streams short.
func OptHTTPClient(v *http.Client) ClientOpt {
	return func(c *Client) error {
		if v == nil {
			return ErrClient.With("missing http client")
		}
		c.client = v
		return nil
	}
}

// OptTrace writes request and response lines to w. When verbose is set the
// JSON bodies are written too.
func OptTrace(w io.Writer, verbose bool) ClientOpt {
	return func(c *Client) error {
		c.trace = w
		c.verbose = verbose
		return nil
	}
}

// OptTracer sets an OpenTelemetry tracer, so that each operation runs inside
// its own span
func OptTracer(t trace.Tracer) ClientOpt {
	return func(c *Client) error {
		c.tracer = t
		return nil
	}
}
