package api

import (
	"context"
	"iter"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	"go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GenerateContent sends the request to the model named by it and returns the
// single decoded response. The model identity is resolved into the URL path
// and cleared from the encoded body. A response carrying neither candidates
// nor prompt feedback violates the protocol and returns ErrServer; a
// safety-blocked prompt is a normal response, inspect its feedback.
func (c *Client) GenerateContent(ctx context.Context, req *schema.GenerateContentRequest) (result *schema.GenerateContentResponse, err error) {
	if req == nil {
		return nil, ErrClient.With("missing request")
	}

	// Otel span
	ctx, endSpan := otel.StartSpan(c.tracer, ctx, "GenerateContent",
		attribute.String("model", req.Model),
	)
	defer func() { endSpan(err) }()

	body := *req
	body.Model = ""

	response := new(schema.GenerateContentResponse)
	if err := c.do(ctx, req.Model, methodGenerate, &body, response); err != nil {
		return nil, err
	}
	if len(response.Candidates) == 0 && response.PromptFeedback == nil {
		return nil, ErrServer.With("response contained no candidates and no prompt feedback")
	}
	return response, nil
}

// GenerateContentStream sends the request and returns a lazy sequence of
// response chunks, decoded incrementally from the JSON array the service
// writes back. The sequence ends after the closing bracket or on the first
// error; abandoning the loop cancels the underlying request. Chunks carrying
// only usage metadata are valid trailers and are passed through.
func (c *Client) GenerateContentStream(ctx context.Context, req *schema.GenerateContentRequest) iter.Seq2[*schema.GenerateContentResponse, error] {
	return func(yield func(*schema.GenerateContentResponse, error) bool) {
		if req == nil {
			yield(nil, ErrClient.With("missing request"))
			return
		}

		// Otel span
		var err error
		ctx, endSpan := otel.StartSpan(c.tracer, ctx, "GenerateContentStream",
			attribute.String("model", req.Model),
		)
		defer func() { endSpan(err) }()

		body := *req
		body.Model = ""

		resp, cancel, err := c.send(ctx, req.Model, methodStreamGenerate, &body)
		if err != nil {
			yield(nil, err)
			return
		}
		defer cancel()
		defer resp.Body.Close()
		c.tracef("<= %v", resp.Status)

		for chunk, decodeErr := range decodeStream(resp.Body) {
			if decodeErr != nil {
				err = decodeErr
				yield(nil, err)
				return
			}
			if len(chunk.Candidates) == 0 && chunk.PromptFeedback == nil && chunk.UsageMetadata == nil {
				err = ErrServer.With("stream element contained no candidates and no prompt feedback")
				yield(nil, err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}
