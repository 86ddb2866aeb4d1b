package models

// Provenance records how a canonical line item was resolved.
// It is carried for tracing only and never feeds ratio logic.
type Provenance string

const (
	ProvenanceMatched            Provenance = "matched"
	ProvenanceDerivedBySummation Provenance = "derived-by-summation"
	ProvenanceDerivedByFormula   Provenance = "derived-by-formula"
	ProvenanceDefault            Provenance = "default"
)

// LineItem is the resolution of one canonical concept.
type LineItem struct {
	Concept     string     `json:"concept"`
	Provenance  Provenance `json:"provenance"`
	SourceLabel string     `json:"sourceLabel,omitempty"` // matched account name or derived label
	Rule        string     `json:"rule,omitempty"`
	Components  []string   `json:"components,omitempty"` // account names summed or combined
	RawCurrent  string     `json:"rawCurrent"`
	RawPrior    string     `json:"rawPrior"`
}

// Resolved reports whether the item carries data from the source
func (l LineItem) Resolved() bool {
	return l.Provenance != "" && l.Provenance != ProvenanceDefault
}

// Amount is a unit-converted canonical amount in hundred-millions of won.
// Present and PriorPresent distinguish a reported zero from a missing value.
type Amount struct {
	RawCurrent   string     `json:"rawCurrent"`
	RawPrior     string     `json:"rawPrior"`
	Current      float64    `json:"current"`
	Prior        float64    `json:"prior"`
	Display      string     `json:"display"`
	Present      bool       `json:"present"`
	PriorPresent bool       `json:"priorPresent"`
	Provenance   Provenance `json:"provenance"`
}

// PeriodLabels names the current and prior reporting periods
type PeriodLabels struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
}

// AssetSection holds the asset side of the balance sheet
type AssetSection struct {
	Current    Amount `json:"current"`
	NonCurrent Amount `json:"nonCurrent"`
	Total      Amount `json:"total"`
}

// LiabilitySection holds the liabilities of the balance sheet
type LiabilitySection struct {
	Current    Amount `json:"current"`
	NonCurrent Amount `json:"nonCurrent"`
	Total      Amount `json:"total"`
}

// EquitySection holds shareholders' equity
type EquitySection struct {
	Total Amount `json:"total"`
}

// BalanceSheet is the normalized statement of financial position
type BalanceSheet struct {
	Years          PeriodLabels     `json:"years"`
	IsConsolidated bool             `json:"isConsolidated"`
	Assets         AssetSection     `json:"assets"`
	Liabilities    LiabilitySection `json:"liabilities"`
	Equity         EquitySection    `json:"equity"`
	Chart          ChartData        `json:"chartData"`
}

// IncomePeriods names the income statement periods
type IncomePeriods struct {
	Current       string `json:"current"`
	Previous      string `json:"previous"`
	CurrentPeriod string `json:"currentPeriod"`
}

// IncomeStatement is the normalized statement of profit or loss
type IncomeStatement struct {
	Years           IncomePeriods `json:"years"`
	Revenue         Amount        `json:"revenue"`
	OperatingProfit Amount        `json:"operatingProfit"`
	NetIncome       Amount        `json:"netIncome"`
	Chart           ChartData     `json:"chartData"`
}

// RatioNotAvailable marks a ratio whose denominator is zero
const RatioNotAvailable = "N/A"

// Ratios holds the seven percentage ratios as strings fixed to two decimals
type Ratios struct {
	CurrentRatio          string `json:"currentRatio"`
	DebtToEquityRatio     string `json:"debtToEquityRatio"`
	EquityRatio           string `json:"equityRatio"`
	OperatingProfitMargin string `json:"operatingProfitMargin"`
	NetProfitMargin       string `json:"netProfitMargin"`
	ReturnOnEquity        string `json:"returnOnEquity"`
	ReturnOnAssets        string `json:"returnOnAssets"`
}

// GrowthRates holds year-over-year growth in percent. A rate is 0 when the
// prior value is zero or negative.
type GrowthRates struct {
	AssetGrowth           float64 `json:"assetGrowth"`
	RevenueGrowth         float64 `json:"revenueGrowth"`
	OperatingProfitGrowth float64 `json:"operatingProfitGrowth"`
	NetIncomeGrowth       float64 `json:"netIncomeGrowth"`
}

// GrowthDefined reports which growth rates had a positive prior value
type GrowthDefined struct {
	Asset           bool `json:"asset"`
	Revenue         bool `json:"revenue"`
	OperatingProfit bool `json:"operatingProfit"`
	NetIncome       bool `json:"netIncome"`
}

// RatioSet merges ratios and growth rates with a plot-ready series
type RatioSet struct {
	Ratios
	GrowthRates
	GrowthDefined GrowthDefined `json:"growthDefined"`
	Chart         ChartData     `json:"chartData"`
}

// ChartDataset is one plotted series
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is a labelled set of series ready for rendering
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// FinancialReport is the combined output of one pipeline run
type FinancialReport struct {
	CorpCode        string          `json:"corpCode"`
	RequestedYear   int             `json:"requestedYear"`
	ResolvedYear    int             `json:"resolvedYear"`
	ReportCode      string          `json:"reportCode"`
	BalanceSheet    BalanceSheet    `json:"balanceSheet"`
	IncomeStatement IncomeStatement `json:"incomeStatement"`
	Ratios          RatioSet        `json:"ratios"`
	Attempts        []FetchAttempt  `json:"attempts"`
}

// FetchAttempt records one disclosure API call made while resolving a year
type FetchAttempt struct {
	Year    int    `json:"year"`
	Outcome string `json:"outcome"`
	Status  string `json:"status,omitempty"`
}

// ChartKind selects one of the report charts
type ChartKind string

const (
	ChartBalance ChartKind = "balance"
	ChartIncome  ChartKind = "income"
	ChartRatios  ChartKind = "ratios"
)

// Valid reports whether k names a known chart
func (k ChartKind) Valid() bool {
	switch k {
	case ChartBalance, ChartIncome, ChartRatios:
		return true
	}
	return false
}
