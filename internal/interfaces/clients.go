// Package interfaces defines service contracts for finlens
package interfaces

import (
	"context"

	"github.com/bobmcallan/finlens/internal/models"
)

// DARTClient fetches single-company accounts from the disclosure API
type DARTClient interface {
	// GetFinancialStatements returns the raw response for one company, fiscal
	// year and report type. API-level status codes are returned in the
	// response; only transport failures are returned as errors.
	GetFinancialStatements(ctx context.Context, corpCode string, year int, reportCode string) (*models.DisclosureResponse, error)
}

// GeminiClient provides access to Gemini API
type GeminiClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// GenerateWithSystem generates content under a system instruction
	GenerateWithSystem(ctx context.Context, system, prompt string) (string, error)
}
