package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	"github.com/mutablelogic/go-gemini/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCountTokensRequest(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	generate := &schema.GenerateContentRequest{
		Model:             "models/gemini-pro",
		Contents:          []*schema.Content{schema.NewTextContent("user", "count me")},
		SystemInstruction: schema.NewTextContent("", "be brief"),
	}

	// Current API versions embed the whole generate request
	embedded := schema.NewCountTokensRequest("v1beta", generate)
	require.NotNil(embedded.GenerateContentRequest)
	assert.Empty(embedded.Contents)
	assert.Equal("models/gemini-pro", embedded.ModelName())

	// The v1 shape uses legacy top-level fields
	legacy := schema.NewCountTokensRequest("v1", generate)
	assert.Nil(legacy.GenerateContentRequest)
	assert.Equal(generate.Contents, legacy.Contents)
	assert.Equal(generate.SystemInstruction, legacy.SystemInstruction)
	assert.Equal("models/gemini-pro", legacy.ModelName())
}

func TestCountTokensRequestWire(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	generate := &schema.GenerateContentRequest{
		Contents: []*schema.Content{schema.NewTextContent("user", "count me")},
	}

	// Embedded shape wraps the generate request under a single key
	data, err := schema.Marshal(schema.NewCountTokensRequest("v1beta", generate))
	require.NoError(err)
	var wire map[string]any
	require.NoError(json.Unmarshal(data, &wire))
	assert.Contains(wire, "generate_content_request")
	assert.NotContains(wire, "contents")

	// Legacy shape carries the fields at the top level
	data, err = schema.Marshal(schema.NewCountTokensRequest("v1", generate))
	require.NoError(err)
	wire = nil
	require.NoError(json.Unmarshal(data, &wire))
	assert.Contains(wire, "contents")
	assert.NotContains(wire, "generate_content_request")
}

func TestCountTokensResponseDecode(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	body := `{"totalTokens": 31, "promptTokensDetails": [{"modality": "TEXT", "tokenCount": 31}]}`

	var response schema.CountTokensResponse
	require.NoError(schema.Unmarshal([]byte(body), &response))
	assert.Equal(31, response.TotalTokens)
	require.Len(response.PromptTokensDetails, 1)
	assert.Equal(schema.ModalityText, response.PromptTokensDetails[0].Modality)
	assert.Equal(31, response.PromptTokensDetails[0].TokenCount)
}
