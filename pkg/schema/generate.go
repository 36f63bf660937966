package schema

import (
	"unicode"

	// Packages
	"github.com/google/jsonschema-go/jsonschema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES - GENERATE CONTENT REQUEST

// GenerateContentRequest is the request body for
// POST /{version}/{model=models/*}:generateContent  and
// POST /{version}/{model=models/*}:streamGenerateContent
//
// The model identity travels in the URL path, never in the body: the
// controller reads Model to build the URL and clears it before encoding.
type GenerateContentRequest struct {
	Model             string            `json:"model,omitempty"`
	Contents          []*Content        `json:"contents"`
	Tools             []*Tool           `json:"tools,omitempty"`
	ToolConfig        *ToolConfig       `json:"tool_config,omitempty"`
	SafetySettings    []*SafetySetting  `json:"safety_settings,omitempty"`
	SystemInstruction *Content          `json:"system_instruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generation_config,omitempty"`
}

// GenerationConfig holds the generation parameters. Every field is optional;
// unset fields are omitted from the wire so that server defaults apply.
type GenerationConfig struct {
	Temperature      *float64           `json:"temperature,omitempty"`
	TopK             *int               `json:"top_k,omitempty"`
	TopP             *float64           `json:"top_p,omitempty"`
	CandidateCount   *int               `json:"candidate_count,omitempty"`
	MaxOutputTokens  *int               `json:"max_output_tokens,omitempty"`
	StopSequences    []string           `json:"stop_sequences,omitempty"`
	ResponseMIMEType string             `json:"response_mime_type,omitempty"`
	ResponseSchema   *jsonschema.Schema `json:"response_schema,omitempty"`
}

// SafetySetting adjusts the blocking threshold for one harm category
type SafetySetting struct {
	Category  HarmCategory       `json:"category"`
	Threshold HarmBlockThreshold `json:"threshold"`
}

///////////////////////////////////////////////////////////////////////////////
// TYPES - TOOLS & FUNCTION CALLING

// Tool groups the function declarations the model may call while generating
type Tool struct {
	FunctionDeclarations []*FunctionDeclaration `json:"function_declarations,omitempty"`
}

// FunctionDeclaration describes a callable function by name, purpose and
// parameter schema
type FunctionDeclaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// ToolConfig configures tool behaviour for the whole request
type ToolConfig struct {
	FunctionCallingConfig *FunctionCallingConfig `json:"function_calling_config,omitempty"`
}

// FunctionCallingConfig controls whether and which functions may be called
type FunctionCallingConfig struct {
	Mode                 FunctionCallingMode `json:"mode,omitempty"`
	AllowedFunctionNames []string            `json:"allowed_function_names,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// TYPES - GENERATE CONTENT RESPONSE

// GenerateContentResponse is the response from generateContent and each
// element of the streamGenerateContent array
type GenerateContentResponse struct {
	Candidates     []*Candidate    `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"prompt_feedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usage_metadata,omitempty"`
}

// Candidate is a single generated response
type Candidate struct {
	Content          *Content          `json:"content,omitempty"`
	FinishReason     FinishReason      `json:"finish_reason,omitempty"`
	SafetyRatings    []*SafetyRating   `json:"safety_ratings,omitempty"`
	CitationMetadata *CitationMetadata `json:"citation_metadata,omitempty"`
	Index            int               `json:"index,omitempty"`
}

// PromptFeedback reports whether and why the prompt itself was blocked
type PromptFeedback struct {
	BlockReason   BlockReason     `json:"block_reason,omitempty"`
	SafetyRatings []*SafetyRating `json:"safety_ratings,omitempty"`
}

// SafetyRating is the per-category safety assessment of content
type SafetyRating struct {
	Category    HarmCategory    `json:"category"`
	Probability HarmProbability `json:"probability"`
	Blocked     bool            `json:"blocked,omitempty"`
}

// CitationMetadata lists source attributions for a candidate
type CitationMetadata struct {
	CitationSources []*CitationSource `json:"citation_sources,omitempty"`
}

// CitationSource attributes a span of the candidate to a source
type CitationSource struct {
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
	URI        string `json:"uri,omitempty"`
	License    string `json:"license,omitempty"`
}

// UsageMetadata reports token counts for a generation request
type UsageMetadata struct {
	PromptTokenCount     int `json:"prompt_token_count,omitempty"`
	CandidatesTokenCount int `json:"candidates_token_count,omitempty"`
	TotalTokenCount      int `json:"total_token_count,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// ENUMS

type (
	HarmCategory        string
	HarmBlockThreshold  string
	HarmProbability     string
	FunctionCallingMode string
	FinishReason        string
	BlockReason         string
)

const (
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryCivicIntegrity   HarmCategory = "HARM_CATEGORY_CIVIC_INTEGRITY"
)

const (
	HarmBlockThresholdUnspecified    HarmBlockThreshold = "HARM_BLOCK_THRESHOLD_UNSPECIFIED"
	HarmBlockThresholdLowAndAbove    HarmBlockThreshold = "BLOCK_LOW_AND_ABOVE"
	HarmBlockThresholdMediumAndAbove HarmBlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	HarmBlockThresholdOnlyHigh       HarmBlockThreshold = "BLOCK_ONLY_HIGH"
	HarmBlockThresholdNone           HarmBlockThreshold = "BLOCK_NONE"
)

const (
	HarmProbabilityNegligible HarmProbability = "NEGLIGIBLE"
	HarmProbabilityLow        HarmProbability = "LOW"
	HarmProbabilityMedium     HarmProbability = "MEDIUM"
	HarmProbabilityHigh       HarmProbability = "HIGH"
)

const (
	FunctionCallingAuto FunctionCallingMode = "AUTO"
	FunctionCallingAny  FunctionCallingMode = "ANY"
	FunctionCallingNone FunctionCallingMode = "NONE"
)

const (
	FinishReasonUnspecified FinishReason = "FINISH_REASON_UNSPECIFIED"
	FinishReasonStop        FinishReason = "STOP"
	FinishReasonMaxTokens   FinishReason = "MAX_TOKENS"
	FinishReasonSafety      FinishReason = "SAFETY"
	FinishReasonRecitation  FinishReason = "RECITATION"
	FinishReasonOther       FinishReason = "OTHER"
)

const (
	BlockReasonUnspecified BlockReason = "BLOCK_REASON_UNSPECIFIED"
	BlockReasonSafety      BlockReason = "SAFETY"
	BlockReasonOther       BlockReason = "OTHER"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Text returns the concatenated text parts of the first candidate, or the
// empty string when there is no candidate content
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Text()
}

// FunctionCalls returns the function call parts of the first candidate
func (r *GenerateContentResponse) FunctionCalls() []*FunctionCall {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil
	}
	var calls []*FunctionCall
	for _, part := range r.Candidates[0].Content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// Blocked reports whether the prompt was rejected by a safety filter.
// A blocked prompt is a normal response, not an error.
func (r *GenerateContentResponse) Blocked() bool {
	if r == nil || r.PromptFeedback == nil {
		return false
	}
	reason := r.PromptFeedback.BlockReason
	return reason != "" && reason != BlockReasonUnspecified
}

// IsFunctionName returns true if the string is a valid function
// declaration name: it starts with a letter or underscore, continues
// with letters, digits, underscores, dots or dashes, and is at most
// 64 characters long
func IsFunctionName(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r GenerateContentRequest) String() string {
	return types.Stringify(r)
}

func (r GenerateContentResponse) String() string {
	return types.Stringify(r)
}
