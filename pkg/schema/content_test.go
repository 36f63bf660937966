package schema_test

import (
	"encoding/json"
	"testing"

	// Packages
	"github.com/mutablelogic/go-gemini/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextContent(t *testing.T) {
	assert := assert.New(t)

	content := schema.NewTextContent("user", "Hello, world!")
	assert.Equal("user", content.Role)
	assert.Len(content.Parts, 1)
	assert.NotNil(content.Parts[0].Text)
	assert.Equal("Hello, world!", *content.Parts[0].Text)
}

func TestContentBuilders(t *testing.T) {
	assert := assert.New(t)

	user := schema.NewUserContent(schema.NewTextPart("question"))
	assert.Equal(schema.RoleUser, user.Role)

	model := schema.NewModelContent(schema.NewTextPart("answer"))
	assert.Equal(schema.RoleModel, model.Role)

	blob := schema.NewDataPart("image/png", []byte{0x89, 0x50})
	assert.Equal("image/png", blob.InlineData.MIMEType)
	assert.Equal([]byte{0x89, 0x50}, blob.InlineData.Data)

	file := schema.NewFilePart("https://example.com/a.pdf", "application/pdf")
	assert.Equal("https://example.com/a.pdf", file.FileData.FileURI)

	call := schema.NewFunctionCallPart("lookup", map[string]any{"city": "Berlin"})
	assert.Equal("lookup", call.FunctionCall.Name)

	result := schema.NewFunctionResponsePart("lookup", map[string]any{"population": 3_700_000})
	assert.Equal("lookup", result.FunctionResponse.Name)
}

func TestContentText(t *testing.T) {
	assert := assert.New(t)

	// Concatenates text parts, skips other variants
	content := schema.NewUserContent(
		schema.NewTextPart("Hello, "),
		schema.NewDataPart("image/png", []byte{0x01}),
		schema.NewTextPart("world"),
	)
	assert.Equal("Hello, world", content.Text())

	// Nil receiver returns the empty string
	var nilContent *schema.Content
	assert.Equal("", nilContent.Text())
}

func TestPartMarshal(t *testing.T) {
	assert := assert.New(t)

	// Single text variant
	data, err := json.Marshal(schema.NewTextPart("hello"))
	assert.NoError(err)
	assert.JSONEq(`{"text":"hello"}`, string(data))

	// Inline data is base64-encoded with a snake_case wrapper
	data, err = json.Marshal(schema.NewDataPart("image/png", []byte("hello")))
	assert.NoError(err)
	assert.JSONEq(`{"inline_data":{"mime_type":"image/png","data":"aGVsbG8="}}`, string(data))

	// Zero variants is rejected
	_, err = json.Marshal(schema.Part{})
	assert.Error(err)

	// Multiple variants is rejected
	_, err = json.Marshal(schema.Part{
		Text:     ptr("hello"),
		FileData: &schema.FileData{FileURI: "https://example.com/a"},
	})
	assert.Error(err)
}

func TestPartUnmarshal(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// Function call variant
	var part schema.Part
	require.NoError(json.Unmarshal([]byte(`{"function_call":{"name":"lookup","args":{"city":"Berlin"}}}`), &part))
	require.NotNil(part.FunctionCall)
	assert.Equal("lookup", part.FunctionCall.Name)
	assert.Equal("Berlin", part.FunctionCall.Args["city"])

	// Unknown sibling keys are ignored
	part = schema.Part{}
	require.NoError(json.Unmarshal([]byte(`{"text":"hi","thought":true}`), &part))
	require.NotNil(part.Text)
	assert.Equal("hi", *part.Text)

	// An empty text part still counts as the text variant
	part = schema.Part{}
	require.NoError(json.Unmarshal([]byte(`{"text":""}`), &part))
	require.NotNil(part.Text)
	assert.Equal("", *part.Text)

	// Zero variants is rejected
	assert.Error(json.Unmarshal([]byte(`{"thought":true}`), &part))

	// Multiple variants is rejected
	assert.Error(json.Unmarshal([]byte(`{"text":"a","file_data":{"file_uri":"https://example.com/a"}}`), &part))
}

func TestContentRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	content := schema.NewUserContent(
		schema.NewTextPart("look this up"),
		schema.NewFunctionResponsePart("lookup", map[string]any{"answer": "42"}),
	)
	data, err := json.Marshal(content)
	require.NoError(err)

	var decoded schema.Content
	require.NoError(json.Unmarshal(data, &decoded))
	assert.Equal("user", decoded.Role)
	require.Len(decoded.Parts, 2)
	assert.Equal("look this up", decoded.Text())
	require.NotNil(decoded.Parts[1].FunctionResponse)
	assert.Equal("42", decoded.Parts[1].FunctionResponse.Response["answer"])
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

func ptr[T any](v T) *T {
	return &v
}
