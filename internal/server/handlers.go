package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/finlens/internal/models"
	"github.com/bobmcallan/finlens/internal/services/company"
)

// financialMeta describes how a report was resolved.
type financialMeta struct {
	CorpCode      string                `json:"corpCode"`
	ReportCode    string                `json:"reportCode"`
	RequestedYear int                   `json:"requestedYear"`
	ResolvedYear  int                   `json:"resolvedYear"`
	Consolidated  bool                  `json:"consolidated"`
	Attempts      []models.FetchAttempt `json:"attempts"`
}

type financialResponse struct {
	BalanceSheet    models.BalanceSheet    `json:"balanceSheet"`
	IncomeStatement models.IncomeStatement `json:"incomeStatement"`
	Ratios          models.RatioSet        `json:"ratios"`
	Meta            financialMeta          `json:"meta"`
}

// clientGone reports whether err is the requester's own cancellation, in
// which case nobody is left to read a response.
func clientGone(r *http.Request, err error) bool {
	return errors.Is(err, context.Canceled) && r.Context().Err() != nil
}

// handleFinancial handles GET /api/financial?corp_code=&year=&report_code=
func (s *Server) handleFinancial(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	fq, ok := s.parseFinancialQuery(w, r)
	if !ok {
		return
	}

	report, err := s.app.FinancialService.GetFinancialReport(r.Context(), fq.CorpCode, fq.Year, fq.ReportCode)
	if err != nil {
		if clientGone(r, err) {
			return
		}
		s.logger.Warn().Err(err).Str("corp_code", fq.CorpCode).Int("year", fq.Year).Msg("Financial report failed")
		s.writeFetchError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, financialResponse{
		BalanceSheet:    report.BalanceSheet,
		IncomeStatement: report.IncomeStatement,
		Ratios:          report.Ratios,
		Meta: financialMeta{
			CorpCode:      report.CorpCode,
			ReportCode:    report.ReportCode,
			RequestedYear: report.RequestedYear,
			ResolvedYear:  report.ResolvedYear,
			Consolidated:  report.BalanceSheet.IsConsolidated,
			Attempts:      report.Attempts,
		},
	})
}

// handleFinancialChart handles GET /api/financial/chart?corp_code=&year=&kind=
func (s *Server) handleFinancialChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	fq, ok := s.parseFinancialQuery(w, r)
	if !ok {
		return
	}
	cq := chartQuery{financialQuery: fq, Kind: strings.TrimSpace(r.URL.Query().Get("kind"))}
	if cq.Kind == "" {
		cq.Kind = string(models.ChartBalance)
	}
	if !s.validateStruct(w, cq) {
		return
	}

	report, err := s.app.FinancialService.GetFinancialReport(r.Context(), fq.CorpCode, fq.Year, fq.ReportCode)
	if err != nil {
		if clientGone(r, err) {
			return
		}
		s.writeFetchError(w, err)
		return
	}

	png, err := s.app.FinancialService.RenderChart(report, models.ChartKind(cq.Kind))
	if err != nil {
		s.logger.Error().Err(err).Str("kind", cq.Kind).Msg("Chart render failed")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("X-Resolved-Year", strconv.Itoa(report.ResolvedYear))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleCompanySearch handles GET /api/companies/search?query=
func (s *Server) handleCompanySearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "검색어를 입력하세요", "missing_parameter")
		return
	}

	if s.app.CompanyService == nil {
		WriteErrorWithCode(w, http.StatusServiceUnavailable, "회사 검색을 사용할 수 없습니다", "storage_unavailable")
		return
	}

	companies, err := s.app.CompanyService.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, company.ErrEmptyKeyword) {
			WriteErrorWithCode(w, http.StatusBadRequest, "검색어를 입력하세요", "missing_parameter")
			return
		}
		s.logger.Error().Err(err).Str("query", query).Msg("Company search failed")
		WriteError(w, http.StatusInternalServerError, "회사 검색 중 오류가 발생했습니다")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
}

// flexString accepts a JSON string, a number, or a company object and keeps
// its display text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case '{':
		var c models.Company
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*f = flexString(c.CorpName)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexString(n.String())
	}
	return nil
}

// companyRef is the analysis request's company: a name, a number, or a
// company object. The object form may carry only a corp code.
type companyRef struct {
	Name     string
	CorpCode string
}

func (c *companyRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var m models.Company
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		c.Name, c.CorpCode = m.CorpName, m.CorpCode
		return nil
	}
	var f flexString
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	c.Name = string(f)
	return nil
}

type analysisRequest struct {
	Company         companyRef              `json:"company"`
	CorpCode        string                  `json:"corpCode"`
	Year            flexString              `json:"year"`
	BalanceSheet    *models.BalanceSheet    `json:"balanceSheet"`
	IncomeStatement *models.IncomeStatement `json:"incomeStatement"`
	Ratios          *models.RatioSet        `json:"ratios"`
	Prompt          string                  `json:"prompt"`
}

// handleAnalysis handles POST /api/analysis
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analysisRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.BalanceSheet == nil || req.IncomeStatement == nil || req.Ratios == nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "balanceSheet, incomeStatement and ratios are required", "missing_parameter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.app.Config.Clients.Gemini.GetTimeout())
	defer cancel()

	narrative := s.app.NarrativeService.Summarize(ctx, models.NarrativeRequest{
		Company:         s.companyName(r.Context(), req),
		Year:            string(req.Year),
		BalanceSheet:    req.BalanceSheet,
		IncomeStatement: req.IncomeStatement,
		Ratios:          req.Ratios,
		Prompt:          req.Prompt,
	})

	WriteJSON(w, http.StatusOK, narrative)
}

// companyName returns the request's company name, looking it up by corp code
// in the directory when only the code was sent.
func (s *Server) companyName(ctx context.Context, req analysisRequest) string {
	if req.Company.Name != "" {
		return req.Company.Name
	}
	code := strings.TrimSpace(req.Company.CorpCode)
	if code == "" {
		code = strings.TrimSpace(req.CorpCode)
	}
	if code == "" || s.app.CompanyService == nil {
		return code
	}
	c, err := s.app.CompanyService.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, company.ErrNotFound) {
			s.logger.Warn().Err(err).Str("corp_code", code).Msg("Company lookup failed")
		}
		return code
	}
	return c.CorpName
}
