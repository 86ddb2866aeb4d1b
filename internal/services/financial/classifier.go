package financial

import (
	"strings"

	"github.com/bobmcallan/finlens/internal/models"
)

// ConsolidatedReportKind is the fs_div code of consolidated statements
const ConsolidatedReportKind = "CFS"

var consolidatedKeywords = []string{"연결", "연결재무상태표", "연결재무제표", "연결손익계산서"}

var totalAssetLabels = []string{"자산총계", "자산 총계"}

// IsConsolidated classifies a statement list as consolidated or standalone.
// The first item decides, checked in order: report kind code, statement
// name, statement name detail. Without any of those the account detail of
// the total assets line is searched. Anything else is standalone.
func IsConsolidated(items []models.RawLineItem) bool {
	if len(items) == 0 {
		return false
	}

	first := items[0]
	if first.ReportKind != "" {
		return first.ReportKind == ConsolidatedReportKind
	}
	if first.StatementName != "" {
		return hasConsolidatedKeyword(first.StatementName)
	}
	if first.StatementNameDetail != "" {
		return hasConsolidatedKeyword(first.StatementNameDetail)
	}

	for _, it := range items {
		if !isTotalAssets(it.AccountName) {
			continue
		}
		if it.AccountDetail != "" {
			return hasConsolidatedKeyword(it.AccountDetail)
		}
		break
	}
	return false
}

func isTotalAssets(name string) bool {
	for _, l := range totalAssetLabels {
		if strings.Contains(name, l) {
			return true
		}
	}
	return false
}

func hasConsolidatedKeyword(s string) bool {
	for _, k := range consolidatedKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
