package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/finlens/internal/services/financial"
)

const genericFetchError = "재무제표 데이터를 가져오는 중 오류가 발생했습니다"

// writeFetchError maps a fetch failure to an HTTP status and user message.
func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	status, message, code := classifyFetchError(err)
	WriteErrorWithCode(w, status, message, code)
}

func classifyFetchError(err error) (int, string, string) {
	var fe *financial.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case financial.KindNoData:
			return http.StatusNotFound, fe.Message, string(fe.Kind)
		case financial.KindAuth:
			return http.StatusUnauthorized, fe.Message, string(fe.Kind)
		case financial.KindBadRequest:
			return http.StatusBadRequest, fe.Message, string(fe.Kind)
		case financial.KindNetwork:
			return http.StatusServiceUnavailable, fe.Message, string(fe.Kind)
		default:
			return http.StatusInternalServerError, fe.Message, string(fe.Kind)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusServiceUnavailable, "API 요청 시간이 초과되었습니다. 나중에 다시 시도해 주세요.", string(financial.KindNetwork)
	}

	return classifyByMessage(err)
}

// classifyByMessage handles errors that carry no type information
func classifyByMessage(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, genericFetchError, ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "데이터가 없습니다"), strings.Contains(msg, "no data"):
		return http.StatusNotFound, msg, string(financial.KindNoData)
	case strings.Contains(msg, "API 키"), strings.Contains(msg, "credentials"):
		return http.StatusUnauthorized, "금융감독원 API 키가 유효하지 않습니다. 환경 변수 DART_API_KEY를 확인해 주세요.", string(financial.KindAuth)
	case strings.Contains(msg, "잘못된 요청"), strings.Contains(msg, "bad request"):
		return http.StatusBadRequest, msg, string(financial.KindBadRequest)
	case strings.Contains(msg, "시간이 초과"), strings.Contains(msg, "timeout"), strings.Contains(msg, "응답이 없습니다"):
		return http.StatusServiceUnavailable, msg, string(financial.KindNetwork)
	case msg != "":
		return http.StatusInternalServerError, msg, ""
	default:
		return http.StatusInternalServerError, genericFetchError, ""
	}
}
