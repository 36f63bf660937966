package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

const replyBody = `{"candidates":[{"content":{"parts":[{"text":"Hi there"}],"role":"model"},"finishReason":"STOP"}]}`

// newClient returns a client aimed at a server which records decoded
// request bodies into requests and responds with the given body
func newClient(t *testing.T, body string, requests *[]map[string]any) *gemini.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			var decoded map[string]any
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &decoded)
			*requests = append(*requests, decoded)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	client, err := gemini.New("test-key", gemini.OptEndpoint(server.URL))
	require.NoError(t, err)
	return client
}

// dig walks nested objects by key and returns the value at the end
func dig(t *testing.T, m map[string]any, keys ...string) any {
	t.Helper()
	var current any = m
	for _, key := range keys {
		node, ok := current.(map[string]any)
		require.True(t, ok, "expected an object at %q", key)
		current = node[key]
	}
	return current
}

func TestModelDefaults(t *testing.T) {
	assert := assert.New(t)

	var requests []map[string]any
	client := newClient(t, replyBody, &requests)

	model, err := client.GenerativeModel("gemini-pro")
	assert.NoError(err)
	assert.Equal("gemini-pro", model.Name())

	response, err := model.GenerateContent(context.TODO(), schema.NewTextPart("Hello"))
	assert.NoError(err)
	assert.Equal("Hi there", response.Text())

	// Nothing configured, nothing sent
	require.Len(t, requests, 1)
	assert.Contains(requests[0], "contents")
	assert.NotContains(requests[0], "generation_config")
	assert.NotContains(requests[0], "tools")
	assert.NotContains(requests[0], "tool_config")
	assert.NotContains(requests[0], "safety_settings")
	assert.NotContains(requests[0], "system_instruction")
}

func TestModelOptions(t *testing.T) {
	assert := assert.New(t)

	var requests []map[string]any
	client := newClient(t, replyBody, &requests)

	model, err := client.GenerativeModel("gemini-pro",
		gemini.WithTemperature(0.2),
		gemini.WithTopK(40),
		gemini.WithTopP(0.95),
		gemini.WithMaxOutputTokens(256),
		gemini.WithStopSequences("END"),
		gemini.WithSystemInstruction("You are terse."),
		gemini.WithSafetySettings(&schema.SafetySetting{
			Category:  schema.HarmCategoryHarassment,
			Threshold: schema.HarmBlockThresholdOnlyHigh,
		}),
	)
	assert.NoError(err)

	_, err = model.GenerateContent(context.TODO(), schema.NewTextPart("Hello"))
	assert.NoError(err)
	require.Len(t, requests, 1)

	assert.Equal(0.2, dig(t, requests[0], "generation_config", "temperature"))
	assert.Equal(float64(40), dig(t, requests[0], "generation_config", "top_k"))
	assert.Equal(0.95, dig(t, requests[0], "generation_config", "top_p"))
	assert.Equal(float64(256), dig(t, requests[0], "generation_config", "max_output_tokens"))
	assert.Equal([]any{"END"}, dig(t, requests[0], "generation_config", "stop_sequences"))

	instruction, ok := dig(t, requests[0], "system_instruction").(map[string]any)
	require.True(t, ok)
	assert.Equal([]any{map[string]any{"text": "You are terse."}}, instruction["parts"])

	settings, ok := requests[0]["safety_settings"].([]any)
	require.True(t, ok)
	require.Len(t, settings, 1)
	assert.Equal("HARM_CATEGORY_HARASSMENT", settings[0].(map[string]any)["category"])
	assert.Equal("BLOCK_ONLY_HIGH", settings[0].(map[string]any)["threshold"])
}

func TestModelOptionValidation(t *testing.T) {
	assert := assert.New(t)

	client := newClient(t, replyBody, nil)
	for _, opt := range []gemini.Opt{
		gemini.WithTemperature(2.5),
		gemini.WithTopP(1.5),
		gemini.WithTopK(0),
		gemini.WithMaxOutputTokens(0),
		gemini.WithCandidateCount(0),
		gemini.WithResponseMIMEType(""),
		gemini.WithResponseSchema(nil),
		gemini.WithFunctionCallingMode("SOMETIMES"),
	} {
		_, err := client.GenerativeModel("gemini-pro", opt)
		assert.ErrorIs(err, gemini.ErrClient)
	}
}

func TestModelResponseSchema(t *testing.T) {
	assert := assert.New(t)

	var requests []map[string]any
	client := newClient(t, replyBody, &requests)

	model, err := client.GenerativeModel("gemini-pro", gemini.WithResponseSchema(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"answer": {Type: "string"},
		},
	}))
	assert.NoError(err)

	_, err = model.GenerateContent(context.TODO(), schema.NewTextPart("Hello"))
	assert.NoError(err)
	require.Len(t, requests, 1)

	assert.Equal("application/json", dig(t, requests[0], "generation_config", "response_mime_type"))
	assert.Equal("object", dig(t, requests[0], "generation_config", "response_schema", "type"))
}

func TestModelFunctionDeclarations(t *testing.T) {
	assert := assert.New(t)

	var requests []map[string]any
	client := newClient(t, replyBody, &requests)

	model, err := client.GenerativeModel("gemini-pro",
		gemini.WithFunctionDeclarations(&schema.FunctionDeclaration{
			Name:        "get_weather",
			Description: "Return the current weather for a location",
			Parameters: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"location": {Type: "string"},
				},
				Required: []string{"location"},
			},
		}),
		gemini.WithFunctionCallingMode(schema.FunctionCallingAny, "get_weather"),
	)
	assert.NoError(err)

	_, err = model.GenerateContent(context.TODO(), schema.NewTextPart("Weather in Berlin?"))
	assert.NoError(err)
	require.Len(t, requests, 1)

	tools, ok := requests[0]["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	declarations, ok := tools[0].(map[string]any)["function_declarations"].([]any)
	require.True(t, ok)
	require.Len(t, declarations, 1)
	assert.Equal("get_weather", declarations[0].(map[string]any)["name"])

	assert.Equal("ANY", dig(t, requests[0], "tool_config", "function_calling_config", "mode"))
	assert.Equal([]any{"get_weather"}, dig(t, requests[0], "tool_config", "function_calling_config", "allowed_function_names"))
}

func TestModelCountTokens(t *testing.T) {
	assert := assert.New(t)

	var requests []map[string]any
	client := newClient(t, `{"totalTokens": 9}`, &requests)

	model, err := client.GenerativeModel("gemini-pro")
	assert.NoError(err)

	response, err := model.CountTokens(context.TODO(), schema.NewTextPart("How long is this?"))
	assert.NoError(err)
	assert.Equal(9, response.TotalTokens)

	require.Len(t, requests, 1)
	assert.NotContains(requests[0], "model")
	assert.Equal("models/gemini-pro", dig(t, requests[0], "generate_content_request", "model"))
}
