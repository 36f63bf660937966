package api

import (
	"context"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	"go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CountTokens returns the token count of the prompt without generating. The
// target model is read from whichever request shape is populated and never
// travels at the top level of the body; inside the embedded shape it is
// rewritten to the resolved model path, which the service requires.
func (c *Client) CountTokens(ctx context.Context, req *schema.CountTokensRequest) (result *schema.CountTokensResponse, err error) {
	if req == nil {
		return nil, ErrClient.With("missing request")
	}
	model := req.ModelName()

	// Otel span
	ctx, endSpan := otel.StartSpan(c.tracer, ctx, "CountTokens",
		attribute.String("model", model),
	)
	defer func() { endSpan(err) }()

	body := *req
	body.Model = ""
	if body.GenerateContentRequest != nil {
		embedded := *body.GenerateContentRequest
		embedded.Model = modelPath(model)
		body.GenerateContentRequest = &embedded
	}

	response := new(schema.CountTokensResponse)
	if err := c.do(ctx, model, methodCountTokens, &body, response); err != nil {
		return nil, err
	}
	return response, nil
}
