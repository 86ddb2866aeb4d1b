package financial

import (
	"errors"
	"fmt"

	"github.com/bobmcallan/finlens/internal/models"
)

// FetchErrorKind classifies a terminal fetch failure
type FetchErrorKind string

const (
	KindNoData     FetchErrorKind = "no_data"
	KindAuth       FetchErrorKind = "auth"
	KindBadRequest FetchErrorKind = "bad_request"
	KindUpstream   FetchErrorKind = "upstream"
	KindNetwork    FetchErrorKind = "network"
)

// ReasonNoDataAtFloor is the terminal reason once the floor year is exhausted
const ReasonNoDataAtFloor = "no data at floor year"

// FetchError is a terminal failure of the fetch loop. Reason is for logs,
// Message is safe to show to users.
type FetchError struct {
	Kind     FetchErrorKind
	Year     int
	Status   string
	Reason   string
	Message  string
	Attempts []models.FetchAttempt
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("fetch statements for %d: %s (status %s)", e.Year, e.Reason, e.Status)
	}
	return fmt.Sprintf("fetch statements for %d: %s", e.Year, e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsKind reports whether err is a FetchError of the given kind
func IsKind(err error, kind FetchErrorKind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == kind
}

func noDataError(year, floor int, attempts []models.FetchAttempt) *FetchError {
	return &FetchError{
		Kind:     KindNoData,
		Year:     year,
		Status:   models.DARTStatusNoData,
		Reason:   ReasonNoDataAtFloor,
		Message:  fmt.Sprintf("해당 연도(%d)부터 %d년까지 재무제표 데이터가 없습니다. 다른 연도를 선택해 주세요.", year, floor),
		Attempts: attempts,
	}
}
