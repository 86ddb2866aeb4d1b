// Package models defines data structures for finlens
package models

// Disclosure API status codes
const (
	DARTStatusSuccess = "000"
	DARTStatusNoData  = "013"
)

// Report type codes accepted by the single-company accounts endpoint
const (
	ReportAnnual       = "11011"
	ReportHalfYear     = "11012"
	ReportFirstQuarter = "11013"
	ReportThirdQuarter = "11014"
)

// DefaultReportCode is used when the caller does not name a report type
const DefaultReportCode = ReportAnnual

// ReportCodes lists the report type codes in fiscal order
var ReportCodes = []string{ReportFirstQuarter, ReportHalfYear, ReportThirdQuarter, ReportAnnual}

// IsValidReportCode reports whether code is a known report type
func IsValidReportCode(code string) bool {
	for _, c := range ReportCodes {
		if c == code {
			return true
		}
	}
	return false
}

// RawLineItem is one accounting record as returned by the disclosure API.
// AccountName is free text and not unique.
type RawLineItem struct {
	ReceiptNo           string `json:"rcept_no,omitempty"`
	BusinessYear        string `json:"bsns_year,omitempty"`
	StockCode           string `json:"stock_code,omitempty"`
	ReportCode          string `json:"reprt_code,omitempty"`
	AccountName         string `json:"account_nm"`
	ReportKind          string `json:"fs_div,omitempty"` // CFS consolidated, OFS standalone
	StatementName       string `json:"fs_nm,omitempty"`
	StatementKind       string `json:"sj_div,omitempty"` // BS balance sheet, IS income statement
	StatementNameDetail string `json:"sj_nm,omitempty"`
	AccountDetail       string `json:"account_detail,omitempty"`
	CurrentPeriodName   string `json:"thstrm_nm,omitempty"`
	CurrentPeriodDate   string `json:"thstrm_dt,omitempty"`
	CurrentPeriodAmount string `json:"thstrm_amount,omitempty"`
	PriorPeriodName     string `json:"frmtrm_nm,omitempty"`
	PriorPeriodDate     string `json:"frmtrm_dt,omitempty"`
	PriorPeriodAmount   string `json:"frmtrm_amount,omitempty"`
	Order               string `json:"ord,omitempty"`
	Currency            string `json:"currency,omitempty"`
}

// DisclosureResponse is the envelope of a disclosure API call
type DisclosureResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	List    []RawLineItem `json:"list,omitempty"`
}
