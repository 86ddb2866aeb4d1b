package statements

import (
	"errors"
	"math"
	"strconv"

	"github.com/bobmcallan/finlens/internal/models"
)

// ErrMissingStatement is returned when a ratio input is absent
var ErrMissingStatement = errors.New("balance sheet and income statement are required")

// RatioChartLabel names the single dataset of the ratio chart
const RatioChartLabel = "재무비율(%)"

var ratioChartLabels = []string{"유동비율", "부채비율", "자기자본비율", "매출액영업이익률", "매출액순이익률", "ROE", "ROA"}

// ComputeRatios derives the seven percentage ratios and four growth rates.
// A ratio with a zero denominator is "N/A"; a growth rate with a prior value
// at or below zero is 0 and flagged undefined in GrowthDefined.
func ComputeRatios(bs *models.BalanceSheet, is *models.IncomeStatement) (*models.RatioSet, error) {
	if bs == nil || is == nil {
		return nil, ErrMissingStatement
	}

	ratios := models.Ratios{
		CurrentRatio:          percentRatio(bs.Assets.Current.Current, bs.Liabilities.Current.Current),
		DebtToEquityRatio:     percentRatio(bs.Liabilities.Total.Current, bs.Equity.Total.Current),
		EquityRatio:           percentRatio(bs.Equity.Total.Current, bs.Assets.Total.Current),
		OperatingProfitMargin: percentRatio(is.OperatingProfit.Current, is.Revenue.Current),
		NetProfitMargin:       percentRatio(is.NetIncome.Current, is.Revenue.Current),
		ReturnOnEquity:        percentRatio(is.NetIncome.Current, bs.Equity.Total.Current),
		ReturnOnAssets:        percentRatio(is.NetIncome.Current, bs.Assets.Total.Current),
	}

	assetGrowth, assetOK := growthRate(bs.Assets.Total.Current, bs.Assets.Total.Prior)
	revenueGrowth, revenueOK := growthRate(is.Revenue.Current, is.Revenue.Prior)
	opGrowth, opOK := growthRate(is.OperatingProfit.Current, is.OperatingProfit.Prior)
	netGrowth, netOK := growthRate(is.NetIncome.Current, is.NetIncome.Prior)

	return &models.RatioSet{
		Ratios: ratios,
		GrowthRates: models.GrowthRates{
			AssetGrowth:           assetGrowth,
			RevenueGrowth:         revenueGrowth,
			OperatingProfitGrowth: opGrowth,
			NetIncomeGrowth:       netGrowth,
		},
		GrowthDefined: models.GrowthDefined{
			Asset:           assetOK,
			Revenue:         revenueOK,
			OperatingProfit: opOK,
			NetIncome:       netOK,
		},
		Chart: ratioChart(ratios),
	}, nil
}

// percentRatio returns numerator/denominator*100 fixed to two decimals
func percentRatio(numerator, denominator float64) string {
	if denominator == 0 {
		return models.RatioNotAvailable
	}
	return strconv.FormatFloat(numerator/denominator*100, 'f', 2, 64)
}

func growthRate(current, prior float64) (float64, bool) {
	if prior <= 0 {
		return 0, false
	}
	return (current - prior) / math.Abs(prior) * 100, true
}

// RatioValue parses a ratio string for plotting; "N/A" plots as 0
func RatioValue(s string) float64 {
	if s == models.RatioNotAvailable {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func ratioChart(r models.Ratios) models.ChartData {
	return models.ChartData{
		Labels: ratioChartLabels,
		Datasets: []models.ChartDataset{{
			Label: RatioChartLabel,
			Data: []float64{
				RatioValue(r.CurrentRatio),
				RatioValue(r.DebtToEquityRatio),
				RatioValue(r.EquityRatio),
				RatioValue(r.OperatingProfitMargin),
				RatioValue(r.NetProfitMargin),
				RatioValue(r.ReturnOnEquity),
				RatioValue(r.ReturnOnAssets),
			},
		}},
	}
}
