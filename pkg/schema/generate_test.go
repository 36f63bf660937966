package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	"github.com/mutablelogic/go-gemini/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationConfigOmitsUnsetFields(t *testing.T) {
	assert := assert.New(t)

	// An empty config encodes to an empty object
	data, err := schema.Marshal(schema.GenerationConfig{})
	assert.NoError(err)
	assert.Equal(`{}`, string(data))

	// Zero values are distinct from unset values
	data, err = schema.Marshal(schema.GenerationConfig{
		Temperature: ptr(0.0),
		TopK:        ptr(0),
	})
	assert.NoError(err)
	assert.JSONEq(`{"temperature":0,"top_k":0}`, string(data))
}

func TestGenerateRequestWireKeys(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	req := &schema.GenerateContentRequest{
		Contents: []*schema.Content{schema.NewTextContent("user", "hello")},
		ToolConfig: &schema.ToolConfig{
			FunctionCallingConfig: &schema.FunctionCallingConfig{
				Mode: schema.FunctionCallingAuto,
			},
		},
		SafetySettings: []*schema.SafetySetting{
			{Category: schema.HarmCategoryHarassment, Threshold: schema.HarmBlockThresholdOnlyHigh},
		},
		SystemInstruction: schema.NewTextContent("", "be brief"),
		GenerationConfig: &schema.GenerationConfig{
			Temperature:     ptr(0.2),
			MaxOutputTokens: ptr(100),
		},
	}

	data, err := schema.Marshal(req)
	require.NoError(err)

	var wire map[string]any
	require.NoError(json.Unmarshal(data, &wire))

	// Keys are snake_case all the way down
	toolConfig, ok := wire["tool_config"].(map[string]any)
	require.True(ok)
	callingConfig, ok := toolConfig["function_calling_config"].(map[string]any)
	require.True(ok)
	assert.Equal("AUTO", callingConfig["mode"])

	settings, ok := wire["safety_settings"].([]any)
	require.True(ok)
	require.Len(settings, 1)
	assert.Equal("HARM_CATEGORY_HARASSMENT", settings[0].(map[string]any)["category"])
	assert.Equal("BLOCK_ONLY_HIGH", settings[0].(map[string]any)["threshold"])

	generationConfig, ok := wire["generation_config"].(map[string]any)
	require.True(ok)
	assert.Equal(float64(100), generationConfig["max_output_tokens"])

	assert.Contains(wire, "system_instruction")
	assert.NotContains(wire, "model")
}

func TestGenerateResponseDecode(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	// Responses from the live service use camelCase keys
	body := `{
		"candidates": [{
			"content": {"parts": [{"text": "Hello there"}], "role": "model"},
			"finishReason": "STOP",
			"index": 0,
			"safetyRatings": [{"category": "HARM_CATEGORY_HARASSMENT", "probability": "NEGLIGIBLE"}]
		}],
		"usageMetadata": {"promptTokenCount": 4, "candidatesTokenCount": 3, "totalTokenCount": 7}
	}`

	var response schema.GenerateContentResponse
	require.NoError(schema.Unmarshal([]byte(body), &response))
	require.Len(response.Candidates, 1)
	assert.Equal("Hello there", response.Text())
	assert.Equal(schema.FinishReasonStop, response.Candidates[0].FinishReason)
	require.Len(response.Candidates[0].SafetyRatings, 1)
	assert.Equal(schema.HarmProbabilityNegligible, response.Candidates[0].SafetyRatings[0].Probability)
	require.NotNil(response.UsageMetadata)
	assert.Equal(4, response.UsageMetadata.PromptTokenCount)
	assert.Equal(7, response.UsageMetadata.TotalTokenCount)
	assert.False(response.Blocked())
}

func TestGenerateResponseFunctionCalls(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	// Argument names chosen by the function schema are preserved verbatim,
	// even when they look like camelCase wire keys
	body := `{
		"candidates": [{
			"content": {
				"parts": [{"functionCall": {"name": "getWeather", "args": {"cityName": "London", "unitSystem": "metric"}}}],
				"role": "model"
			},
			"finishReason": "STOP"
		}]
	}`

	var response schema.GenerateContentResponse
	require.NoError(schema.Unmarshal([]byte(body), &response))

	calls := response.FunctionCalls()
	require.Len(calls, 1)
	assert.Equal("getWeather", calls[0].Name)
	assert.Equal("London", calls[0].Args["cityName"])
	assert.Equal("metric", calls[0].Args["unitSystem"])
	assert.Equal("", response.Text())
}

func TestGenerateResponseBlocked(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	// A blocked prompt decodes as a normal response with feedback set
	body := `{"promptFeedback": {"blockReason": "SAFETY", "safetyRatings": [{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "probability": "HIGH"}]}}`

	var response schema.GenerateContentResponse
	require.NoError(schema.Unmarshal([]byte(body), &response))
	assert.True(response.Blocked())
	assert.Equal(schema.BlockReasonSafety, response.PromptFeedback.BlockReason)
	assert.Empty(response.Candidates)
	assert.Equal("", response.Text())
	assert.Nil(response.FunctionCalls())
}
