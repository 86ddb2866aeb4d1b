// Package financial fetches disclosure statements and turns them into
// normalized statements, ratios and charts
package financial

import (
	"context"
	"fmt"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/models"
	"github.com/bobmcallan/finlens/internal/statements"
)

var _ interfaces.FinancialService = (*Service)(nil)

// Service implements FinancialService
type Service struct {
	orchestrator *Orchestrator
	normalizer   *statements.Normalizer
	logger       *common.Logger
}

// NewService creates a new financial service
func NewService(orchestrator *Orchestrator, logger *common.Logger) *Service {
	return &Service{
		orchestrator: orchestrator,
		normalizer:   statements.NewNormalizer(logger),
		logger:       logger,
	}
}

// GetFinancialReport runs fetch, normalization and ratio computation
func (s *Service) GetFinancialReport(ctx context.Context, corpCode string, year int, reportCode string) (*models.FinancialReport, error) {
	result, err := s.orchestrator.Fetch(ctx, corpCode, year, reportCode)
	if err != nil {
		return nil, err
	}

	bs, is := s.normalizer.Normalize(result.Items, result.Consolidated)

	ratios, err := statements.ComputeRatios(&bs, &is)
	if err != nil {
		return nil, fmt.Errorf("compute ratios: %w", err)
	}

	return &models.FinancialReport{
		CorpCode:        corpCode,
		RequestedYear:   result.RequestedYear,
		ResolvedYear:    result.ResolvedYear,
		ReportCode:      result.ReportCode,
		BalanceSheet:    bs,
		IncomeStatement: is,
		Ratios:          *ratios,
		Attempts:        result.Attempts,
	}, nil
}

// RenderChart draws the selected chart of a report as PNG
func (s *Service) RenderChart(report *models.FinancialReport, kind models.ChartKind) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}
	switch kind {
	case models.ChartBalance:
		return RenderStatementChart("재무상태표 (억원)", report.BalanceSheet.Chart)
	case models.ChartIncome:
		return RenderStatementChart("손익계산서 (억원)", report.IncomeStatement.Chart)
	case models.ChartRatios:
		return RenderStatementChart("재무비율 (%)", report.Ratios.Chart)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}
