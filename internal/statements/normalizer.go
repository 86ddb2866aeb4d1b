package statements

import (
	"fmt"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/models"
)

// Period placeholders used when the list carries no period dates
const (
	CurrentPeriodPlaceholder = "당기"
	PriorPeriodPlaceholder   = "전기"
)

var (
	balanceChartLabels = []string{"자산", "부채", "자본"}
	incomeChartLabels  = []string{"매출액", "영업이익", "당기순이익"}
)

// resolve is swapped in tests to exercise the recovery path
var resolve = Resolve

// Normalizer builds balance sheets and income statements from raw items.
// It never returns an error: any failure yields a zero-valued statement.
type Normalizer struct {
	logger *common.Logger
}

// NewNormalizer creates a normalizer that logs through logger
func NewNormalizer(logger *common.Logger) *Normalizer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Normalizer{logger: logger}
}

var defaultNormalizer = NewNormalizer(nil)

// NormalizeBalanceSheet builds a balance sheet with a silent logger
func NormalizeBalanceSheet(items []models.RawLineItem, consolidated bool) models.BalanceSheet {
	return defaultNormalizer.BalanceSheet(items, consolidated)
}

// NormalizeIncomeStatement builds an income statement with a silent logger
func NormalizeIncomeStatement(items []models.RawLineItem) models.IncomeStatement {
	return defaultNormalizer.IncomeStatement(items)
}

// Normalize resolves items once and builds both statements
func (n *Normalizer) Normalize(items []models.RawLineItem, consolidated bool) (models.BalanceSheet, models.IncomeStatement) {
	res, ok := n.safeResolve(items)
	if !ok {
		bs := EmptyBalanceSheet()
		bs.IsConsolidated = consolidated
		return bs, EmptyIncomeStatement()
	}
	return n.balanceSheet(items, res, consolidated), n.incomeStatement(items, res)
}

// BalanceSheet builds the statement of financial position
func (n *Normalizer) BalanceSheet(items []models.RawLineItem, consolidated bool) models.BalanceSheet {
	bs, _ := n.Normalize(items, consolidated)
	return bs
}

// IncomeStatement builds the statement of profit or loss
func (n *Normalizer) IncomeStatement(items []models.RawLineItem) models.IncomeStatement {
	_, is := n.Normalize(items, false)
	return is
}

func (n *Normalizer) safeResolve(items []models.RawLineItem) (res *Resolution, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn().
				Str("panic", fmt.Sprint(r)).
				Int("items", len(items)).
				Msg("Line item resolution failed, using empty statements")
			res, ok = nil, false
		}
	}()

	res = resolve(items)
	for _, li := range res.Trace() {
		n.logger.Debug().
			Str("concept", li.Concept).
			Str("provenance", string(li.Provenance)).
			Str("source", li.SourceLabel).
			Str("rule", li.Rule).
			Str("current", li.RawCurrent).
			Msg("Resolved line item")
	}
	return res, true
}

func (n *Normalizer) balanceSheet(items []models.RawLineItem, res *Resolution, consolidated bool) (bs models.BalanceSheet) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("Balance sheet normalization failed")
			bs = EmptyBalanceSheet()
			bs.IsConsolidated = consolidated
		}
	}()

	current, previous := periodLabels(items)
	bs = models.BalanceSheet{
		Years:          models.PeriodLabels{Current: current, Previous: previous},
		IsConsolidated: consolidated,
		Assets: models.AssetSection{
			Current:    n.amount(res.Get(CurrentAssets)),
			NonCurrent: n.amount(res.Get(NonCurrentAssets)),
			Total:      n.amount(res.Get(TotalAssets)),
		},
		Liabilities: models.LiabilitySection{
			Current:    n.amount(res.Get(CurrentLiabilities)),
			NonCurrent: n.amount(res.Get(NonCurrentLiabilities)),
			Total:      n.amount(res.Get(TotalLiabilities)),
		},
		Equity: models.EquitySection{
			Total: n.amount(res.Get(TotalEquity)),
		},
	}
	bs.Chart = balanceChart(bs)
	return bs
}

func (n *Normalizer) incomeStatement(items []models.RawLineItem, res *Resolution) (is models.IncomeStatement) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn().Str("panic", fmt.Sprint(r)).Msg("Income statement normalization failed")
			is = EmptyIncomeStatement()
		}
	}()

	current, previous := periodLabels(items)
	is = models.IncomeStatement{
		Years:           models.IncomePeriods{Current: current, Previous: previous, CurrentPeriod: current},
		Revenue:         n.amount(res.Get(Revenue)),
		OperatingProfit: n.amount(res.Get(OperatingProfit)),
		NetIncome:       n.amount(res.Get(NetIncome)),
	}
	is.Chart = incomeChart(is)
	return is
}

// amount converts a resolved line item. Non-numeric source amounts are
// logged and treated as zero.
func (n *Normalizer) amount(li models.LineItem) models.Amount {
	_, curOK := ParseRaw(li.RawCurrent)
	_, priorOK := ParseRaw(li.RawPrior)
	resolved := li.Resolved()

	if resolved && !curOK {
		n.logger.Warn().
			Str("concept", li.Concept).
			Str("source", li.SourceLabel).
			Str("amount", li.RawCurrent).
			Msg("Non-numeric amount treated as zero")
	}

	return models.Amount{
		RawCurrent:   orZero(li.RawCurrent),
		RawPrior:     orZero(li.RawPrior),
		Current:      ToUnit(li.RawCurrent),
		Prior:        ToUnit(li.RawPrior),
		Display:      FormatDisplay(li.RawCurrent),
		Present:      resolved && curOK,
		PriorPresent: resolved && li.Provenance == models.ProvenanceMatched && priorOK,
		Provenance:   li.Provenance,
	}
}

func periodLabels(items []models.RawLineItem) (string, string) {
	current, previous := CurrentPeriodPlaceholder, PriorPeriodPlaceholder
	if len(items) > 0 {
		if items[0].CurrentPeriodDate != "" {
			current = items[0].CurrentPeriodDate
		}
		if items[0].PriorPeriodDate != "" {
			previous = items[0].PriorPeriodDate
		}
	}
	return current, previous
}

func balanceChart(bs models.BalanceSheet) models.ChartData {
	return models.ChartData{
		Labels: balanceChartLabels,
		Datasets: []models.ChartDataset{
			{Label: bs.Years.Current, Data: []float64{bs.Assets.Total.Current, bs.Liabilities.Total.Current, bs.Equity.Total.Current}},
			{Label: bs.Years.Previous, Data: []float64{bs.Assets.Total.Prior, bs.Liabilities.Total.Prior, bs.Equity.Total.Prior}},
		},
	}
}

func incomeChart(is models.IncomeStatement) models.ChartData {
	return models.ChartData{
		Labels: incomeChartLabels,
		Datasets: []models.ChartDataset{
			{Label: is.Years.Current, Data: []float64{is.Revenue.Current, is.OperatingProfit.Current, is.NetIncome.Current}},
			{Label: is.Years.Previous, Data: []float64{is.Revenue.Prior, is.OperatingProfit.Prior, is.NetIncome.Prior}},
		},
	}
}

func zeroAmount() models.Amount {
	return models.Amount{RawCurrent: "0", RawPrior: "0", Display: "0원", Provenance: models.ProvenanceDefault}
}

// EmptyBalanceSheet returns the all-zero balance sheet used on failure
func EmptyBalanceSheet() models.BalanceSheet {
	bs := models.BalanceSheet{
		Years:       models.PeriodLabels{Current: CurrentPeriodPlaceholder, Previous: PriorPeriodPlaceholder},
		Assets:      models.AssetSection{Current: zeroAmount(), NonCurrent: zeroAmount(), Total: zeroAmount()},
		Liabilities: models.LiabilitySection{Current: zeroAmount(), NonCurrent: zeroAmount(), Total: zeroAmount()},
		Equity:      models.EquitySection{Total: zeroAmount()},
	}
	bs.Chart = balanceChart(bs)
	return bs
}

// EmptyIncomeStatement returns the all-zero income statement used on failure
func EmptyIncomeStatement() models.IncomeStatement {
	is := models.IncomeStatement{
		Years: models.IncomePeriods{
			Current:       CurrentPeriodPlaceholder,
			Previous:      PriorPeriodPlaceholder,
			CurrentPeriod: CurrentPeriodPlaceholder,
		},
		Revenue:         zeroAmount(),
		OperatingProfit: zeroAmount(),
		NetIncome:       zeroAmount(),
	}
	is.Chart = incomeChart(is)
	return is
}
