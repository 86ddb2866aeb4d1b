package interfaces

import (
	"context"

	"github.com/bobmcallan/finlens/internal/models"
)

// FinancialService resolves, normalizes and analyses financial statements
type FinancialService interface {
	// GetFinancialReport fetches the statements for the requested year, stepping
	// back a year at a time while the API reports no data.
	GetFinancialReport(ctx context.Context, corpCode string, year int, reportCode string) (*models.FinancialReport, error)

	// RenderChart draws one of the report's charts as PNG
	RenderChart(report *models.FinancialReport, kind models.ChartKind) ([]byte, error)
}

// CompanyService searches the company directory
type CompanyService interface {
	Search(ctx context.Context, keyword string) ([]*models.Company, error)
	Get(ctx context.Context, corpCode string) (*models.Company, error)
}

// NarrativeService explains statements in plain language. It never fails:
// an unavailable model yields fallback text.
type NarrativeService interface {
	Summarize(ctx context.Context, req models.NarrativeRequest) *models.Narrative
}
