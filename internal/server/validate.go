package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/finlens/internal/models"
)

// financialQuery holds the query parameters of the financial endpoints.
type financialQuery struct {
	CorpCode   string `query:"corp_code" validate:"required,len=8,numeric"`
	Year       int    `query:"year" validate:"required,min=2000,max=2100"`
	ReportCode string `query:"report_code" validate:"omitempty,oneof=11011 11012 11013 11014"`
}

// chartQuery extends financialQuery with the chart kind.
type chartQuery struct {
	financialQuery
	Kind string `query:"kind" validate:"required,oneof=balance income ratios"`
}

// newValidator reports field errors by their query or JSON name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// parseFinancialQuery reads and validates the financial query parameters.
// Returns false and writes a 400 if they are malformed.
func (s *Server) parseFinancialQuery(w http.ResponseWriter, r *http.Request) (financialQuery, bool) {
	q := r.URL.Query()
	fq := financialQuery{
		CorpCode:   strings.TrimSpace(q.Get("corp_code")),
		ReportCode: strings.TrimSpace(q.Get("report_code")),
	}

	if fq.CorpCode == "" || strings.TrimSpace(q.Get("year")) == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "회사코드(corp_code)와 년도(year)는 필수 파라미터입니다.", "missing_parameter")
		return fq, false
	}

	year, err := strconv.Atoi(strings.TrimSpace(q.Get("year")))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "year must be a number", "invalid_parameter")
		return fq, false
	}
	fq.Year = year

	if !s.validateStruct(w, fq) {
		return fq, false
	}
	if fq.ReportCode == "" {
		fq.ReportCode = models.DefaultReportCode
	}
	return fq, true
}

// validateStruct runs struct validation and writes a 400 describing the
// first failing field.
func (s *Server) validateStruct(w http.ResponseWriter, v interface{}) bool {
	err := s.validate.Struct(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		WriteErrorWithCode(w, http.StatusBadRequest, describeFieldError(verrs[0]), "invalid_parameter")
		return false
	}
	WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_parameter")
	return false
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
