package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// CountTokensRequest is the request body for
// POST /{version}/{model=models/*}:countTokens
//
// Exactly one shape should be populated: the embedded generate request
// (current API versions) or the legacy top-level fields (v1). As with
// generation, the model identity travels in the URL path; the controller
// clears the top-level model and rewrites the embedded one to the resolved
// model path, which the service requires.
type CountTokensRequest struct {
	GenerateContentRequest *GenerateContentRequest `json:"generate_content_request,omitempty"`

	// Legacy shape
	Model             string      `json:"model,omitempty"`
	Contents          []*Content  `json:"contents,omitempty"`
	ToolConfig        *ToolConfig `json:"tool_config,omitempty"`
	SystemInstruction *Content    `json:"system_instruction,omitempty"`
}

// CountTokensResponse is the response from countTokens
type CountTokensResponse struct {
	TotalTokens         int                   `json:"total_tokens"`
	PromptTokensDetails []*ModalityTokenCount `json:"prompt_tokens_details,omitempty"`
}

// ModalityTokenCount is the token count for a single content modality
type ModalityTokenCount struct {
	Modality   Modality `json:"modality,omitempty"`
	TokenCount int      `json:"token_count,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// ENUMS

type Modality string

const (
	ModalityUnspecified Modality = "MODALITY_UNSPECIFIED"
	ModalityText        Modality = "TEXT"
	ModalityImage       Modality = "IMAGE"
	ModalityAudio       Modality = "AUDIO"
	ModalityVideo       Modality = "VIDEO"
	ModalityDocument    Modality = "DOCUMENT"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewCountTokensRequest wraps a generate request in the shape expected by
// the target API version: legacy top-level fields for "v1", the embedded
// generate request otherwise.
func NewCountTokensRequest(version string, req *GenerateContentRequest) *CountTokensRequest {
	if req == nil {
		return nil
	}
	if version == "v1" {
		return &CountTokensRequest{
			Model:             req.Model,
			Contents:          req.Contents,
			ToolConfig:        req.ToolConfig,
			SystemInstruction: req.SystemInstruction,
		}
	}
	return &CountTokensRequest{
		GenerateContentRequest: req,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ModelName returns the model identifier the request targets, regardless of
// which shape is populated
func (r *CountTokensRequest) ModelName() string {
	if r == nil {
		return ""
	}
	if r.GenerateContentRequest != nil && r.GenerateContentRequest.Model != "" {
		return r.GenerateContentRequest.Model
	}
	return r.Model
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r CountTokensRequest) String() string {
	return types.Stringify(r)
}

func (r CountTokensResponse) String() string {
	return types.Stringify(r)
}
