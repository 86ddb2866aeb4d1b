package financial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/finlens/internal/clients/dart"
	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/models"
)

// Attempt outcomes recorded per year
const (
	OutcomeSuccess    = "success"
	OutcomeNoData     = "no_data"
	OutcomeAuth       = "auth_error"
	OutcomeBadRequest = "bad_request"
	OutcomeUpstream   = "upstream_error"
	OutcomeNetwork    = "network_error"
)

var authStatuses = map[string]bool{
	"010": true, // unregistered key
	"011": true, // key not usable
	"012": true, // IP not allowed
	"020": true,
	"901": true, // account retention expired
}

const badRequestStatus = "100"

// FetchResult is a successful resolution of one company and report type
type FetchResult struct {
	CorpCode      string
	ReportCode    string
	RequestedYear int
	ResolvedYear  int
	Items         []models.RawLineItem
	Consolidated  bool
	Attempts      []models.FetchAttempt
}

// Orchestrator fetches statements, stepping back one fiscal year at a time
// while the API reports no data, down to the floor year. Only "no data"
// responses move to an earlier year.
type Orchestrator struct {
	client    interfaces.DARTClient
	floorYear int
	timeout   time.Duration
	logger    *common.Logger
	inflight  singleflight.Group
}

// NewOrchestrator creates an orchestrator. timeout bounds each attempt.
func NewOrchestrator(client interfaces.DARTClient, floorYear int, timeout time.Duration, logger *common.Logger) *Orchestrator {
	if floorYear <= 0 {
		floorYear = common.DefaultFloorYear
	}
	if timeout <= 0 {
		timeout = dart.DefaultTimeout
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Orchestrator{
		client:    client,
		floorYear: floorYear,
		timeout:   timeout,
		logger:    logger,
	}
}

// FloorYear returns the earliest year the orchestrator will request
func (o *Orchestrator) FloorYear() int {
	return o.floorYear
}

// Fetch resolves statements for corpCode starting at year. Concurrent calls
// for the same key share one upstream sequence. The shared sequence is not
// tied to any single caller's lifetime; a cancelled caller stops waiting
// while the others still receive the result.
func (o *Orchestrator) Fetch(ctx context.Context, corpCode string, year int, reportCode string) (*FetchResult, error) {
	if reportCode == "" {
		reportCode = models.DefaultReportCode
	}
	key := fmt.Sprintf("%s:%d:%s", corpCode, year, reportCode)

	flightCtx := context.WithoutCancel(ctx)
	resultChan := o.inflight.DoChan(key, func() (interface{}, error) {
		return o.fetch(flightCtx, corpCode, year, reportCode)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*FetchResult), nil
	}
}

func (o *Orchestrator) fetch(ctx context.Context, corpCode string, year int, reportCode string) (*FetchResult, error) {
	logger := o.logger.WithCorrelationID(corpCode)

	if o.floorYear > year {
		logger.Warn().Int("year", year).Int("floor_year", o.floorYear).Msg("Requested year is below the floor year")
		return nil, noDataError(year, o.floorYear, nil)
	}

	attempts := make([]models.FetchAttempt, 0, year-o.floorYear+1)

	for y := year; y >= o.floorYear; y-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := o.attempt(ctx, corpCode, y, reportCode)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			fe := transportError(y, err)
			fe.Attempts = append(attempts, models.FetchAttempt{Year: y, Outcome: outcomeFor(fe.Kind)})
			logger.Error().Err(err).Int("year", y).Str("kind", string(fe.Kind)).Msg("Statement fetch failed")
			return nil, fe
		}

		attempt := models.FetchAttempt{Year: y, Status: resp.Status}

		switch {
		case resp.Status == models.DARTStatusSuccess && len(resp.List) > 0:
			attempt.Outcome = OutcomeSuccess
			attempts = append(attempts, attempt)
			consolidated := IsConsolidated(resp.List)
			logger.Info().
				Int("requested_year", year).
				Int("resolved_year", y).
				Int("items", len(resp.List)).
				Bool("consolidated", consolidated).
				Msg("Statements resolved")
			return &FetchResult{
				CorpCode:      corpCode,
				ReportCode:    reportCode,
				RequestedYear: year,
				ResolvedYear:  y,
				Items:         resp.List,
				Consolidated:  consolidated,
				Attempts:      attempts,
			}, nil

		case resp.Status == models.DARTStatusSuccess, resp.Status == models.DARTStatusNoData:
			attempt.Outcome = OutcomeNoData
			attempts = append(attempts, attempt)
			logger.Debug().Int("year", y).Str("status", resp.Status).Msg("No statements for year, trying earlier year")
			continue

		default:
			fe := statusError(y, resp)
			attempt.Outcome = outcomeFor(fe.Kind)
			fe.Attempts = append(attempts, attempt)
			logger.Warn().Int("year", y).Str("status", resp.Status).Str("message", resp.Message).Msg("Disclosure API rejected request")
			return nil, fe
		}
	}

	logger.Info().Int("requested_year", year).Int("floor_year", o.floorYear).Msg("No statements down to floor year")
	return nil, noDataError(year, o.floorYear, attempts)
}

func (o *Orchestrator) attempt(ctx context.Context, corpCode string, year int, reportCode string) (*models.DisclosureResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.client.GetFinancialStatements(attemptCtx, corpCode, year, reportCode)
}

// statusError maps a non-success API status to a terminal failure
func statusError(year int, resp *models.DisclosureResponse) *FetchError {
	switch {
	case authStatuses[resp.Status]:
		return &FetchError{
			Kind:    KindAuth,
			Year:    year,
			Status:  resp.Status,
			Reason:  "invalid credentials",
			Message: "API 키가 유효하지 않습니다. DART API 키를 확인해 주세요.",
		}
	case resp.Status == badRequestStatus:
		return &FetchError{
			Kind:    KindBadRequest,
			Year:    year,
			Status:  resp.Status,
			Reason:  "bad request",
			Message: "잘못된 API 요청입니다. 개발자에게 문의하세요.",
		}
	default:
		return &FetchError{
			Kind:    KindUpstream,
			Year:    year,
			Status:  resp.Status,
			Reason:  "upstream error: " + resp.Status,
			Message: fmt.Sprintf("API 오류(%s): %s", resp.Status, resp.Message),
		}
	}
}

// transportError maps a client error to a terminal failure
func transportError(year int, err error) *FetchError {
	if errors.Is(err, dart.ErrMissingAPIKey) {
		return &FetchError{
			Kind:    KindAuth,
			Year:    year,
			Reason:  "missing credentials",
			Message: "API 키가 없습니다. 환경 변수 DART_API_KEY를 설정하세요.",
			Err:     err,
		}
	}

	var httpErr *dart.HTTPError
	if errors.As(err, &httpErr) {
		return &FetchError{
			Kind:    KindUpstream,
			Year:    year,
			Status:  fmt.Sprintf("http %d", httpErr.StatusCode),
			Reason:  fmt.Sprintf("upstream error: http %d", httpErr.StatusCode),
			Message: fmt.Sprintf("API 서버 오류 (%d)", httpErr.StatusCode),
			Err:     err,
		}
	}

	var netErr *dart.NetworkError
	if errors.As(err, &netErr) && netErr.Timeout || errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{
			Kind:    KindNetwork,
			Year:    year,
			Reason:  "timeout",
			Message: "API 요청 시간이 초과되었습니다. 나중에 다시 시도해 주세요.",
			Err:     err,
		}
	}

	return &FetchError{
		Kind:    KindNetwork,
		Year:    year,
		Reason:  "network error",
		Message: "API 서버에서 응답이 없습니다. 네트워크 연결이나 서버 상태를 확인해 주세요.",
		Err:     err,
	}
}

func outcomeFor(kind FetchErrorKind) string {
	switch kind {
	case KindNoData:
		return OutcomeNoData
	case KindAuth:
		return OutcomeAuth
	case KindBadRequest:
		return OutcomeBadRequest
	case KindNetwork:
		return OutcomeNetwork
	default:
		return OutcomeUpstream
	}
}
