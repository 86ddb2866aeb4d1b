package statements

import (
	"testing"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullBalanceItems() []models.RawLineItem {
	return []models.RawLineItem{
		item("유동자산", "400,000,000,000", "350,000,000,000"),
		item("비유동자산", "600,000,000,000", "550,000,000,000"),
		item("자산총계", "1,000,000,000,000", "900,000,000,000"),
		item("유동부채", "200,000,000,000", "180,000,000,000"),
		item("비유동부채", "100,000,000,000", "120,000,000,000"),
		item("부채총계", "300,000,000,000", "300,000,000,000"),
		item("자본총계", "700,000,000,000", "600,000,000,000"),
		item("매출액", "500,000,000,000", "400,000,000,000"),
		item("영업이익", "50,000,000,000", "40,000,000,000"),
		item("당기순이익(손실)", "30,000,000,000", "-10,000,000,000"),
	}
}

func TestNormalizeBalanceSheet_Full(t *testing.T) {
	bs := NormalizeBalanceSheet(fullBalanceItems(), true)

	assert.True(t, bs.IsConsolidated)
	assert.Equal(t, "2024.12.31 현재", bs.Years.Current)
	assert.Equal(t, "2023.12.31 현재", bs.Years.Previous)

	assert.Equal(t, 4000.0, bs.Assets.Current.Current)
	assert.Equal(t, 3500.0, bs.Assets.Current.Prior)
	assert.Equal(t, 10000.0, bs.Assets.Total.Current)
	assert.Equal(t, "1,000,000,000,000", bs.Assets.Total.RawCurrent)
	assert.Equal(t, "1.00조원", bs.Assets.Total.Display)
	assert.Equal(t, "4000.00억원", bs.Assets.Current.Display)
	assert.Equal(t, 3000.0, bs.Liabilities.Total.Current)
	assert.Equal(t, 7000.0, bs.Equity.Total.Current)
	assert.True(t, bs.Equity.Total.Present)
	assert.True(t, bs.Equity.Total.PriorPresent)
	assert.Equal(t, models.ProvenanceMatched, bs.Equity.Total.Provenance)

	require.Len(t, bs.Chart.Datasets, 2)
	assert.Equal(t, []string{"자산", "부채", "자본"}, bs.Chart.Labels)
	assert.Equal(t, []float64{10000, 3000, 7000}, bs.Chart.Datasets[0].Data)
	assert.Equal(t, []float64{9000, 3000, 6000}, bs.Chart.Datasets[1].Data)
	assert.Equal(t, "2024.12.31 현재", bs.Chart.Datasets[0].Label)
}

func TestNormalizeIncomeStatement_Full(t *testing.T) {
	is := NormalizeIncomeStatement(fullBalanceItems())

	assert.Equal(t, "2024.12.31 현재", is.Years.CurrentPeriod)
	assert.Equal(t, 5000.0, is.Revenue.Current)
	assert.Equal(t, 4000.0, is.Revenue.Prior)
	assert.Equal(t, 500.0, is.OperatingProfit.Current)
	assert.Equal(t, 300.0, is.NetIncome.Current)
	assert.Equal(t, -100.0, is.NetIncome.Prior)
	assert.Equal(t, []string{"매출액", "영업이익", "당기순이익"}, is.Chart.Labels)
	assert.Equal(t, []float64{5000, 500, 300}, is.Chart.Datasets[0].Data)
}

func TestNormalize_EmptyListUsesPlaceholders(t *testing.T) {
	bs := NormalizeBalanceSheet(nil, false)
	is := NormalizeIncomeStatement(nil)

	assert.Equal(t, "당기", bs.Years.Current)
	assert.Equal(t, "전기", bs.Years.Previous)
	assert.Equal(t, "당기", is.Years.CurrentPeriod)
	assert.Equal(t, "0", bs.Assets.Total.RawCurrent)
	assert.Equal(t, "0원", bs.Assets.Total.Display)
	assert.Equal(t, 0.0, bs.Assets.Total.Current)
	assert.False(t, bs.Assets.Total.Present)
	assert.Equal(t, models.ProvenanceDefault, is.Revenue.Provenance)
}

func TestNormalize_DerivedAmountsHaveNoPrior(t *testing.T) {
	items := []models.RawLineItem{
		item("자산총계", "1,000,000,000,000", "900,000,000,000"),
		item("부채총계", "600,000,000,000", "500,000,000,000"),
	}
	bs := NormalizeBalanceSheet(items, false)

	assert.Equal(t, 4000.0, bs.Equity.Total.Current)
	assert.True(t, bs.Equity.Total.Present)
	assert.False(t, bs.Equity.Total.PriorPresent)
	assert.Equal(t, 0.0, bs.Equity.Total.Prior)
	assert.Equal(t, models.ProvenanceDerivedByFormula, bs.Equity.Total.Provenance)
}

func TestNormalize_NonNumericAmountIsZero(t *testing.T) {
	items := []models.RawLineItem{item("자산총계", "n/a", "-")}
	bs := NewNormalizer(common.NewSilentLogger()).BalanceSheet(items, false)

	assert.Equal(t, 0.0, bs.Assets.Total.Current)
	assert.False(t, bs.Assets.Total.Present)
	assert.False(t, bs.Assets.Total.PriorPresent)
	assert.Equal(t, models.ProvenanceMatched, bs.Assets.Total.Provenance)
}

func TestNormalize_PanicYieldsEmptyStatements(t *testing.T) {
	orig := resolve
	t.Cleanup(func() { resolve = orig })
	resolve = func([]models.RawLineItem) *Resolution { panic("unexpected shape") }

	n := NewNormalizer(nil)
	bs, is := n.Normalize(fullBalanceItems(), true)

	empty := EmptyBalanceSheet()
	empty.IsConsolidated = true
	assert.Equal(t, empty, bs)
	assert.Equal(t, EmptyIncomeStatement(), is)
}

func TestEmptyStatementsShape(t *testing.T) {
	bs := EmptyBalanceSheet()
	require.Len(t, bs.Chart.Datasets, 2)
	assert.Equal(t, []float64{0, 0, 0}, bs.Chart.Datasets[0].Data)
	assert.Equal(t, "0", bs.Liabilities.NonCurrent.RawPrior)

	is := EmptyIncomeStatement()
	assert.Equal(t, "전기", is.Years.Previous)
	assert.Equal(t, "0", is.NetIncome.RawCurrent)
}
