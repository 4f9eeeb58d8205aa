package api

import (
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/prompts"
)

// This file contains model definitions for Swagger documentation

// RefineRequest asks the model to rewrite one piece of content
// @Description Refinement payload
type RefineRequest struct {
	OriginalContent string                `json:"originalContent" example:"Fast websites for everyone"` // Content to rewrite
	UserFeedback    string                `json:"userFeedback" example:"Make it more concrete"`         // What to change
	Context         prompts.RefineContext `json:"context"`                                              // Section context
}

// ExportRequest renders an analysis as a document
// @Description Export payload
type ExportRequest struct {
	Result *models.AnalysisResult `json:"result"`                    // Analysis to export
	Format models.ExportFormat    `json:"format" example:"markdown"` // markdown, json, html or csv
	Config models.AnalysisConfig  `json:"config"`                    // Inputs shown in the report header
}

// ErrorResponse represents an error response
// @Description Error response
type ErrorResponse struct {
	Success bool     `json:"success" example:"false"`       // Success status
	Error   string   `json:"error" example:"Error message"` // Error message
	Issues  []string `json:"issues,omitempty"`              // Field-level problems in a model response
}

// SuccessResponse represents a success response
// @Description Success response
type SuccessResponse struct {
	Success  bool        `json:"success" example:"true"` // Success status
	Data     interface{} `json:"data"`                   // Response data
	Degraded bool        `json:"degraded,omitempty"`     // Data is a fallback because storage failed
}
