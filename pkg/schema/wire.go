package schema

import (
	"encoding/json"
	"errors"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS
//
// The wire format uses snake_case keys; the json struct tags in this package
// are the field table for the encode direction. The live service accepts
// snake_case on requests but emits camelCase in responses, so the decode
// path folds known object keys back to snake_case before unmarshalling.
// Unknown keys are ignored for forward compatibility.

// wireKeys maps the camelCase spelling of every multi-word wire key in this
// package to its snake_case form. Keys outside this table, such as function
// call arguments or fields added by newer API revisions, pass through
// untouched.
var wireKeys = map[string]string{
	"inlineData":             "inline_data",
	"mimeType":               "mime_type",
	"fileData":               "file_data",
	"fileUri":                "file_uri",
	"functionCall":           "function_call",
	"functionResponse":       "function_response",
	"toolConfig":             "tool_config",
	"functionCallingConfig":  "function_calling_config",
	"allowedFunctionNames":   "allowed_function_names",
	"functionDeclarations":   "function_declarations",
	"safetySettings":         "safety_settings",
	"systemInstruction":      "system_instruction",
	"generationConfig":       "generation_config",
	"topK":                   "top_k",
	"topP":                   "top_p",
	"candidateCount":         "candidate_count",
	"maxOutputTokens":        "max_output_tokens",
	"stopSequences":          "stop_sequences",
	"responseMimeType":       "response_mime_type",
	"responseSchema":         "response_schema",
	"finishReason":           "finish_reason",
	"safetyRatings":          "safety_ratings",
	"citationMetadata":       "citation_metadata",
	"citationSources":        "citation_sources",
	"startIndex":             "start_index",
	"endIndex":               "end_index",
	"promptFeedback":         "prompt_feedback",
	"blockReason":            "block_reason",
	"usageMetadata":          "usage_metadata",
	"promptTokenCount":       "prompt_token_count",
	"candidatesTokenCount":   "candidates_token_count",
	"totalTokenCount":        "total_token_count",
	"generateContentRequest": "generate_content_request",
	"totalTokens":            "total_tokens",
	"promptTokensDetails":    "prompt_tokens_details",
	"tokenCount":             "token_count",
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Marshal encodes a request or response type to its wire form
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes wire JSON into v, accepting both snake_case and
// camelCase object keys
func Unmarshal(data []byte, v any) error {
	folded, err := foldKeys(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(folded, v)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// foldKeys rewrites camelCase object keys listed in wireKeys to snake_case,
// leaving all values untouched. A string literal is a key when the next
// non-space byte after it is a colon, so no nesting state is needed.
func foldKeys(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '"' {
			out = append(out, c)
			continue
		}

		// Find the end of the string literal, honouring escapes
		j := i + 1
		for j < len(data) && data[j] != '"' {
			if data[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(data) {
			return nil, errors.New("unterminated string literal")
		}

		// Peek past trailing whitespace for a colon
		k := j + 1
		for k < len(data) && isSpace(data[k]) {
			k++
		}
		if k < len(data) && data[k] == ':' {
			if snake, ok := wireKeys[string(data[i+1:j])]; ok {
				out = append(out, '"')
				out = append(out, snake...)
				out = append(out, '"')
				i = j
				continue
			}
		}
		out = append(out, data[i:j+1]...)
		i = j
	}
	return out, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
