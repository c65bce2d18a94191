// Package ai wraps the LLM client with the three content operations the CV
// wizard exposes: enhancing experience descriptions, extracting a structured
// document from raw resume text, and generating a professional summary.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// summaryMaxTokens bounds summary output; two to three sentences fit well
// under this cap.
const summaryMaxTokens = 256

// Service provides AI-backed content operations for CV documents.
type Service struct {
	client llm.Client
}

// NewService creates a Service on top of an LLM client.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// EnhanceDescription rewrites a work experience description professionally.
// If the provider returns empty content the original description is returned
// unchanged rather than surfacing an error.
func (s *Service) EnhanceDescription(ctx context.Context, jobTitle, company, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", &validation.Error{Field: "description", Reason: "is required"}
	}
	if strings.TrimSpace(jobTitle) == "" {
		return "", &validation.Error{Field: "jobTitle", Reason: "is required"}
	}
	if strings.TrimSpace(company) == "" {
		return "", &validation.Error{Field: "company", Reason: "is required"}
	}

	prompt := prompts.Format(prompts.MustGet("cv.json", "enhance-description"), map[string]string{
		"JobTitle":    jobTitle,
		"Company":     company,
		"Description": description,
	})

	enhanced, err := s.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &ServiceError{Op: "enhance description", Cause: err}
	}

	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" {
		return description, nil
	}
	return enhanced, nil
}

// ExtractFromText extracts a structured CV document from raw resume text.
// The model output is never trusted: it is schema-checked and then run
// through the same validation as a direct JSON import.
func (s *Service) ExtractFromText(ctx context.Context, resumeText string) (*types.CvDocument, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &validation.Error{Field: "resumeText", Reason: "is required"}
	}

	prompt := prompts.Format(prompts.MustGet("cv.json", "extract-cv-data"), map[string]string{
		"ResumeText": resumeText,
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ServiceError{Op: "extract cv data", Cause: err}
	}

	if err := schemas.ValidateCvData([]byte(raw)); err != nil {
		return nil, &ServiceError{Op: "extract cv data", Cause: fmt.Errorf("model output failed schema check: %w", err)}
	}

	doc, err := validation.Document([]byte(raw))
	if err != nil {
		return nil, &ServiceError{Op: "extract cv data", Cause: fmt.Errorf("model output failed validation: %w", err)}
	}
	return doc, nil
}

// GenerateSummary produces a short professional summary from the document.
// Partial documents are fine; the model works with whatever fragments are
// present. An empty provider response yields an empty summary, not an error.
func (s *Service) GenerateSummary(ctx context.Context, doc types.CvDocument) (string, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", &ServiceError{Op: "generate summary", Cause: err}
	}

	prompt := prompts.Format(prompts.MustGet("cv.json", "generate-summary"), map[string]string{
		"CvData": string(encoded),
	})

	summary, err := s.client.GenerateLimited(ctx, prompt, llm.TierLite, summaryMaxTokens)
	if err != nil {
		return "", &ServiceError{Op: "generate summary", Cause: err}
	}

	return strings.Trim(strings.TrimSpace(summary), `"`), nil
}
