package statements

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/finlens/internal/models"
)

// Concept is one canonical accounting category resolved from the raw list
type Concept string

const (
	CurrentAssets         Concept = "currentAssets"
	NonCurrentAssets      Concept = "nonCurrentAssets"
	TotalAssets           Concept = "totalAssets"
	CurrentLiabilities    Concept = "currentLiabilities"
	NonCurrentLiabilities Concept = "nonCurrentLiabilities"
	TotalLiabilities      Concept = "totalLiabilities"
	TotalEquity           Concept = "totalEquity"
	Revenue               Concept = "revenue"
	OperatingProfit       Concept = "operatingProfit"
	NetIncome             Concept = "netIncome"
)

// Concepts lists every canonical concept in statement order
var Concepts = []Concept{
	CurrentAssets, NonCurrentAssets, TotalAssets,
	CurrentLiabilities, NonCurrentLiabilities, TotalLiabilities,
	TotalEquity,
	Revenue, OperatingProfit, NetIncome,
}

// labelRule matches an account name exactly first, then by substring
// against the variants. Exclude rejects labels that contain the variant as
// a substring of a different concept (비유동자산 contains 유동자산).
type labelRule struct {
	Exact    string
	Variants []string
	Exclude  []string
}

var labelRules = map[Concept]labelRule{
	CurrentAssets:         {Exact: "유동자산", Variants: []string{"유동자산", "유동 자산"}, Exclude: []string{"비유동"}},
	NonCurrentAssets:      {Exact: "비유동자산", Variants: []string{"비유동자산", "비유동 자산", "비유동성자산"}},
	TotalAssets:           {Exact: "자산총계", Variants: []string{"자산총계", "자산 총계", "자산합계"}},
	CurrentLiabilities:    {Exact: "유동부채", Variants: []string{"유동부채", "유동 부채"}, Exclude: []string{"비유동"}},
	NonCurrentLiabilities: {Exact: "비유동부채", Variants: []string{"비유동부채", "비유동 부채", "비유동성부채"}},
	TotalLiabilities:      {Exact: "부채총계", Variants: []string{"부채총계", "부채 총계", "부채합계"}},
	TotalEquity:           {Exact: "자본총계", Variants: []string{"자본총계", "자본 총계", "자본합계"}},
	Revenue:               {Exact: "매출액", Variants: []string{"매출액", "영업수익", "영업 수익", "수익(매출액)"}},
	OperatingProfit:       {Exact: "영업이익", Variants: []string{"영업이익", "영업 이익", "영업이익(손실)"}},
	NetIncome:             {Exact: "당기순이익", Variants: []string{"당기순이익", "당기 순이익", "당기순이익(손실)", "당기순손익"}},
}

// summationRule derives a sub-total from keyword-matched items when the
// parent total resolved but the sub-total did not.
type summationRule struct {
	Parent   Concept
	Keywords []string
	Label    string
}

var summationRules = map[Concept]summationRule{
	CurrentAssets:         {Parent: TotalAssets, Keywords: []string{"현금", "단기", "매출채권", "재고자산"}, Label: "유동자산(계산됨)"},
	NonCurrentAssets:      {Parent: TotalAssets, Keywords: []string{"장기", "투자", "유형자산", "무형자산"}, Label: "비유동자산(계산됨)"},
	CurrentLiabilities:    {Parent: TotalLiabilities, Keywords: []string{"단기", "매입채무", "미지급"}, Label: "유동부채(계산됨)"},
	NonCurrentLiabilities: {Parent: TotalLiabilities, Keywords: []string{"장기", "사채", "충당부채"}, Label: "비유동부채(계산됨)"},
}

var (
	grossProfitKeywords = []string{"매출총이익", "매출총손익"}
	sgaExpenseKeywords  = []string{"판매비와관리비", "판매비", "관리비"}
	revenueKeywords     = []string{"매출", "수익"}
	netIncomeKeywords   = []string{"순이익", "순손익"}
)

// Statement kinds reported in sj_div
var (
	balanceKinds = []string{"BS"}
	incomeKinds  = []string{"IS", "CIS"}
)

// Resolution holds one line item per canonical concept
type Resolution struct {
	items map[Concept]models.LineItem
}

// Get returns the resolved item for c, or a default item when unresolved
func (r *Resolution) Get(c Concept) models.LineItem {
	if r != nil {
		if li, ok := r.items[c]; ok {
			return li
		}
	}
	return defaultItem(c)
}

// Trace lists every concept with its provenance, in statement order
func (r *Resolution) Trace() []models.LineItem {
	out := make([]models.LineItem, 0, len(Concepts))
	for _, c := range Concepts {
		out = append(out, r.Get(c))
	}
	return out
}

// Resolve locates every canonical concept in items. Matching is exact label
// first, then label variants, with the first item in list order winning.
// Unresolved sub-totals are derived by summation or formula where a rule
// exists; anything left over defaults to zero.
func Resolve(items []models.RawLineItem) *Resolution {
	items = scopeReportKind(items)
	balance := scopeStatement(items, balanceKinds)
	income := scopeStatement(items, incomeKinds)

	r := &Resolution{items: make(map[Concept]models.LineItem, len(Concepts))}

	for _, c := range []Concept{TotalAssets, TotalLiabilities, CurrentAssets, NonCurrentAssets, CurrentLiabilities, NonCurrentLiabilities, TotalEquity} {
		if li, ok := matchLabel(c, balance); ok {
			r.items[c] = li
		}
	}
	for _, c := range []Concept{Revenue, OperatingProfit, NetIncome} {
		if li, ok := matchLabel(c, income); ok {
			r.items[c] = li
		}
	}

	for _, c := range []Concept{CurrentAssets, NonCurrentAssets, CurrentLiabilities, NonCurrentLiabilities} {
		if _, ok := r.items[c]; ok {
			continue
		}
		rule := summationRules[c]
		if _, ok := r.items[rule.Parent]; !ok {
			continue
		}
		if li, ok := deriveBySummation(c, rule, balance); ok {
			r.items[c] = li
		}
	}

	if _, ok := r.items[TotalEquity]; !ok {
		assets, hasAssets := r.items[TotalAssets]
		liabilities, hasLiabilities := r.items[TotalLiabilities]
		if hasAssets && hasLiabilities {
			r.items[TotalEquity] = deriveDifference(TotalEquity, "자본총계(계산됨)", assets, liabilities)
		}
	}

	if _, ok := r.items[OperatingProfit]; !ok {
		gross, hasGross := findContaining(income, grossProfitKeywords)
		sga, hasSGA := findContaining(income, sgaExpenseKeywords)
		if hasGross && hasSGA {
			r.items[OperatingProfit] = deriveDifference(OperatingProfit, "영업이익(계산됨)", matchedItem(OperatingProfit, gross, "gross"), matchedItem(OperatingProfit, sga, "sga"))
		}
	}

	if _, ok := r.items[Revenue]; !ok {
		if raw, found := findContaining(income, revenueKeywords); found {
			r.items[Revenue] = matchedItem(Revenue, raw, "fallback")
		}
	}

	if _, ok := r.items[NetIncome]; !ok {
		if raw, found := findNetIncomeFallback(income); found {
			r.items[NetIncome] = matchedItem(NetIncome, raw, "fallback")
		}
	}

	return r
}

func matchLabel(c Concept, items []models.RawLineItem) (models.LineItem, bool) {
	rule := labelRules[c]
	for _, it := range items {
		if strings.TrimSpace(it.AccountName) == rule.Exact {
			return matchedItem(c, it, "exact"), true
		}
	}
	for _, it := range items {
		if excluded(it.AccountName, rule.Exclude) {
			continue
		}
		for _, v := range rule.Variants {
			if strings.Contains(it.AccountName, v) {
				return matchedItem(c, it, "variant:"+v), true
			}
		}
	}
	return models.LineItem{}, false
}

func deriveBySummation(c Concept, rule summationRule, items []models.RawLineItem) (models.LineItem, bool) {
	var sum float64
	var components []string
	for _, it := range items {
		if !containsAny(it.AccountName, rule.Keywords) {
			continue
		}
		v, _ := ParseRaw(it.CurrentPeriodAmount)
		sum += v
		components = append(components, it.AccountName)
	}
	if len(components) == 0 {
		return models.LineItem{}, false
	}
	return models.LineItem{
		Concept:     string(c),
		Provenance:  models.ProvenanceDerivedBySummation,
		SourceLabel: rule.Label,
		Rule:        fmt.Sprintf("sum of %d items", len(components)),
		Components:  components,
		RawCurrent:  formatRaw(sum),
		RawPrior:    "0",
	}, true
}

// deriveDifference computes minuend − subtrahend on the current period
func deriveDifference(c Concept, label string, minuend, subtrahend models.LineItem) models.LineItem {
	a, _ := ParseRaw(minuend.RawCurrent)
	b, _ := ParseRaw(subtrahend.RawCurrent)
	return models.LineItem{
		Concept:     string(c),
		Provenance:  models.ProvenanceDerivedByFormula,
		SourceLabel: label,
		Rule:        "difference",
		Components:  []string{minuend.SourceLabel, subtrahend.SourceLabel},
		RawCurrent:  formatRaw(a - b),
		RawPrior:    "0",
	}
}

func matchedItem(c Concept, it models.RawLineItem, rule string) models.LineItem {
	return models.LineItem{
		Concept:     string(c),
		Provenance:  models.ProvenanceMatched,
		SourceLabel: it.AccountName,
		Rule:        rule,
		RawCurrent:  orZero(it.CurrentPeriodAmount),
		RawPrior:    orZero(it.PriorPeriodAmount),
	}
}

func defaultItem(c Concept) models.LineItem {
	return models.LineItem{
		Concept:    string(c),
		Provenance: models.ProvenanceDefault,
		RawCurrent: "0",
		RawPrior:   "0",
	}
}

func findContaining(items []models.RawLineItem, keywords []string) (models.RawLineItem, bool) {
	for _, it := range items {
		if containsAny(it.AccountName, keywords) {
			return it, true
		}
	}
	return models.RawLineItem{}, false
}

func findNetIncomeFallback(items []models.RawLineItem) (models.RawLineItem, bool) {
	for _, it := range items {
		name := it.AccountName
		if containsAny(name, netIncomeKeywords) {
			return it, true
		}
		if strings.Contains(name, "당기") && (strings.Contains(name, "이익") || strings.Contains(name, "손익")) {
			return it, true
		}
	}
	return models.RawLineItem{}, false
}

// scopeReportKind keeps the items of the first report kind seen so a list
// carrying both consolidated and standalone rows is not double counted.
func scopeReportKind(items []models.RawLineItem) []models.RawLineItem {
	kind := ""
	for _, it := range items {
		if it.ReportKind != "" {
			kind = it.ReportKind
			break
		}
	}
	if kind == "" {
		return items
	}
	out := make([]models.RawLineItem, 0, len(items))
	for _, it := range items {
		if it.ReportKind == "" || it.ReportKind == kind {
			out = append(out, it)
		}
	}
	return out
}

// scopeStatement keeps items of the given statement kinds. Items without a
// statement kind are kept for every statement.
func scopeStatement(items []models.RawLineItem, kinds []string) []models.RawLineItem {
	out := make([]models.RawLineItem, 0, len(items))
	for _, it := range items {
		if it.StatementKind == "" || containsExact(kinds, it.StatementKind) {
			out = append(out, it)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func excluded(name string, exclude []string) bool {
	return len(exclude) > 0 && containsAny(name, exclude)
}

func orZero(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "0"
	}
	return raw
}
