package statements

import (
	"testing"

	"github.com/bobmcallan/finlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name, current, prior string) models.RawLineItem {
	return models.RawLineItem{
		AccountName:         name,
		CurrentPeriodDate:   "2024.12.31 현재",
		CurrentPeriodAmount: current,
		PriorPeriodDate:     "2023.12.31 현재",
		PriorPeriodAmount:   prior,
	}
}

func TestResolve_ExactBeforeVariant(t *testing.T) {
	items := []models.RawLineItem{
		item("유동자산합계", "1", "1"),
		item("유동자산", "2", "2"),
	}
	res := Resolve(items)
	li := res.Get(CurrentAssets)
	assert.Equal(t, models.ProvenanceMatched, li.Provenance)
	assert.Equal(t, "유동자산", li.SourceLabel)
	assert.Equal(t, "exact", li.Rule)
	assert.Equal(t, "2", li.RawCurrent)
}

func TestResolve_VariantFirstInListOrder(t *testing.T) {
	items := []models.RawLineItem{
		item("자산 총계", "10", "9"),
		item("자산합계", "20", "19"),
	}
	li := Resolve(items).Get(TotalAssets)
	assert.Equal(t, "자산 총계", li.SourceLabel)
	assert.Equal(t, "variant:자산 총계", li.Rule)
}

func TestResolve_CurrentAssetsIgnoresNonCurrentLabel(t *testing.T) {
	items := []models.RawLineItem{
		item("비유동자산 합계", "500", "400"),
		item("유동자산 합계", "300", "200"),
	}
	res := Resolve(items)
	assert.Equal(t, "유동자산 합계", res.Get(CurrentAssets).SourceLabel)
	assert.Equal(t, "비유동자산 합계", res.Get(NonCurrentAssets).SourceLabel)
}

func TestResolve_SummationWhenOnlyTotalPresent(t *testing.T) {
	items := []models.RawLineItem{
		item("자산총계", "10,000", "9,000"),
		item("현금및현금성자산", "1,000", "900"),
		item("단기금융상품", "2,000", "1,500"),
		item("매출채권", "3,000", "2,000"),
		item("재고자산", "400", "300"),
	}
	li := Resolve(items).Get(CurrentAssets)
	require.Equal(t, models.ProvenanceDerivedBySummation, li.Provenance)
	assert.Equal(t, "6400", li.RawCurrent)
	assert.Equal(t, "0", li.RawPrior)
	assert.Equal(t, "유동자산(계산됨)", li.SourceLabel)
	assert.Len(t, li.Components, 4)
}

func TestResolve_NoSummationWithoutTotal(t *testing.T) {
	items := []models.RawLineItem{
		item("현금및현금성자산", "1,000", "900"),
		item("단기금융상품", "2,000", "1,500"),
	}
	li := Resolve(items).Get(CurrentAssets)
	assert.Equal(t, models.ProvenanceDefault, li.Provenance)
	assert.Equal(t, "0", li.RawCurrent)
}

func TestResolve_SummationSkipsResolvedSubtotal(t *testing.T) {
	items := []models.RawLineItem{
		item("자산총계", "10,000", "9,000"),
		item("유동자산", "5,000", "4,000"),
		item("장기금융상품", "1,000", "800"),
		item("유형자산", "2,000", "1,800"),
	}
	res := Resolve(items)
	assert.Equal(t, models.ProvenanceMatched, res.Get(CurrentAssets).Provenance)
	assert.Equal(t, "5,000", res.Get(CurrentAssets).RawCurrent)

	nonCurrent := res.Get(NonCurrentAssets)
	assert.Equal(t, models.ProvenanceDerivedBySummation, nonCurrent.Provenance)
	assert.Equal(t, "3000", nonCurrent.RawCurrent)
}

func TestResolve_LiabilitySummation(t *testing.T) {
	items := []models.RawLineItem{
		item("부채총계", "900", "800"),
		item("단기차입금", "100", "0"),
		item("매입채무", "200", "0"),
		item("미지급금", "50", "0"),
		item("사채", "300", "0"),
		item("장기차입금", "150", "0"),
	}
	res := Resolve(items)
	assert.Equal(t, "350", res.Get(CurrentLiabilities).RawCurrent)
	assert.Equal(t, "450", res.Get(NonCurrentLiabilities).RawCurrent)
}

func TestResolve_EquityDerivation(t *testing.T) {
	items := []models.RawLineItem{
		item("자산총계", "1000", "900"),
		item("부채총계", "600", "500"),
	}
	li := Resolve(items).Get(TotalEquity)
	require.Equal(t, models.ProvenanceDerivedByFormula, li.Provenance)
	assert.Equal(t, "400", li.RawCurrent)
	assert.Equal(t, "0", li.RawPrior)
	assert.Equal(t, []string{"자산총계", "부채총계"}, li.Components)
}

func TestResolve_EquityMatchedWins(t *testing.T) {
	items := []models.RawLineItem{
		item("자산총계", "1000", "900"),
		item("부채총계", "600", "500"),
		item("자본총계", "410", "400"),
	}
	li := Resolve(items).Get(TotalEquity)
	assert.Equal(t, models.ProvenanceMatched, li.Provenance)
	assert.Equal(t, "410", li.RawCurrent)
}

func TestResolve_OperatingProfitFormula(t *testing.T) {
	items := []models.RawLineItem{
		item("매출액", "1,000", "900"),
		item("매출총이익", "400", "350"),
		item("판매비와관리비", "150", "140"),
	}
	li := Resolve(items).Get(OperatingProfit)
	require.Equal(t, models.ProvenanceDerivedByFormula, li.Provenance)
	assert.Equal(t, "250", li.RawCurrent)
	assert.Equal(t, "영업이익(계산됨)", li.SourceLabel)
}

func TestResolve_OperatingProfitNeedsBothInputs(t *testing.T) {
	items := []models.RawLineItem{
		item("매출액", "1,000", "900"),
		item("매출총이익", "400", "350"),
	}
	assert.Equal(t, models.ProvenanceDefault, Resolve(items).Get(OperatingProfit).Provenance)
}

func TestResolve_RevenueAndNetIncomeFallback(t *testing.T) {
	items := []models.RawLineItem{
		item("이자수익", "70", "60"),
		item("당기의 포괄이익", "30", "20"),
	}
	res := Resolve(items)

	rev := res.Get(Revenue)
	assert.Equal(t, models.ProvenanceMatched, rev.Provenance)
	assert.Equal(t, "fallback", rev.Rule)
	assert.Equal(t, "이자수익", rev.SourceLabel)

	net := res.Get(NetIncome)
	assert.Equal(t, "fallback", net.Rule)
	assert.Equal(t, "당기의 포괄이익", net.SourceLabel)
}

func TestResolve_StatementKindScoping(t *testing.T) {
	receivable := item("매출채권", "500", "400")
	receivable.StatementKind = "BS"
	interest := item("이자수익", "900", "800")
	interest.StatementKind = "IS"

	rev := Resolve([]models.RawLineItem{receivable, interest}).Get(Revenue)
	assert.Equal(t, "이자수익", rev.SourceLabel)
	assert.Equal(t, "fallback", rev.Rule)
}

func TestResolve_ReportKindScoping(t *testing.T) {
	cfs := item("자산총계", "2,000", "1,800")
	cfs.ReportKind = "CFS"
	ofs := item("자산총계", "1,000", "900")
	ofs.ReportKind = "OFS"
	cfsCash := item("현금및현금성자산", "300", "0")
	cfsCash.ReportKind = "CFS"
	ofsCash := item("현금및현금성자산", "100", "0")
	ofsCash.ReportKind = "OFS"

	res := Resolve([]models.RawLineItem{cfs, ofs, cfsCash, ofsCash})
	assert.Equal(t, "2,000", res.Get(TotalAssets).RawCurrent)
	assert.Equal(t, "300", res.Get(CurrentAssets).RawCurrent)
}

func TestResolve_EmptyList(t *testing.T) {
	res := Resolve(nil)
	trace := res.Trace()
	require.Len(t, trace, len(Concepts))
	for _, li := range trace {
		assert.Equal(t, models.ProvenanceDefault, li.Provenance, li.Concept)
		assert.Equal(t, "0", li.RawCurrent)
		assert.Equal(t, "0", li.RawPrior)
	}
}

func TestResolve_MatchedEmptyAmountBecomesZero(t *testing.T) {
	li := Resolve([]models.RawLineItem{item("자산총계", "", "")}).Get(TotalAssets)
	assert.Equal(t, models.ProvenanceMatched, li.Provenance)
	assert.Equal(t, "0", li.RawCurrent)
}
