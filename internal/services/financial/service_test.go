package financial

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func newTestService(client *mockDARTClient) *Service {
	logger := common.NewSilentLogger()
	return NewService(NewOrchestrator(client, 2015, time.Second, logger), logger)
}

func TestGetFinancialReport_EndToEnd(t *testing.T) {
	client := &mockDARTClient{responses: map[int]*models.DisclosureResponse{
		2023: {
			Status: models.DARTStatusSuccess,
			List: []models.RawLineItem{
				{AccountName: "자산총계", ReportKind: "CFS", CurrentPeriodDate: "2023.12.31 현재", PriorPeriodDate: "2022.12.31 현재", CurrentPeriodAmount: "1,000,000,000,000", PriorPeriodAmount: "900,000,000,000"},
				{AccountName: "부채총계", ReportKind: "CFS", CurrentPeriodAmount: "600,000,000,000", PriorPeriodAmount: "500,000,000,000"},
			},
		},
	}}
	svc := newTestService(client)

	report, err := svc.GetFinancialReport(context.Background(), "00126380", 2024, "")
	require.NoError(t, err)

	assert.Equal(t, 2024, report.RequestedYear)
	assert.Equal(t, 2023, report.ResolvedYear)
	assert.True(t, report.BalanceSheet.IsConsolidated)
	assert.Equal(t, "2023.12.31 현재", report.BalanceSheet.Years.Current)
	assert.Equal(t, 4000.0, report.BalanceSheet.Equity.Total.Current)
	assert.Equal(t, "40.00", report.Ratios.EquityRatio)
	assert.Equal(t, "150.00", report.Ratios.DebtToEquityRatio)
	assert.InDelta(t, 11.11, report.Ratios.AssetGrowth, 0.01)
	assert.Len(t, report.Attempts, 2)
}

func TestGetFinancialReport_PropagatesFetchError(t *testing.T) {
	client := &mockDARTClient{responses: map[int]*models.DisclosureResponse{
		2024: {Status: "020", Message: "invalid"},
	}}
	svc := newTestService(client)

	_, err := svc.GetFinancialReport(context.Background(), "00126380", 2024, "")
	assert.True(t, IsKind(err, KindAuth))
}

func TestRenderChart_AllKinds(t *testing.T) {
	client := &mockDARTClient{responses: map[int]*models.DisclosureResponse{2024: successResponse("CFS")}}
	svc := newTestService(client)

	report, err := svc.GetFinancialReport(context.Background(), "00126380", 2024, "")
	require.NoError(t, err)

	for _, kind := range []models.ChartKind{models.ChartBalance, models.ChartIncome, models.ChartRatios} {
		png, err := svc.RenderChart(report, kind)
		require.NoError(t, err, kind)
		assert.True(t, bytes.HasPrefix(png, pngMagic), kind)
	}

	_, err = svc.RenderChart(report, "pie")
	assert.Error(t, err)

	_, err = svc.RenderChart(nil, models.ChartBalance)
	assert.Error(t, err)
}

func TestRenderStatementChart_NegativeValues(t *testing.T) {
	data := models.ChartData{
		Labels:   []string{"영업이익"},
		Datasets: []models.ChartDataset{{Label: "당기", Data: []float64{-120.5}}},
	}
	png, err := RenderStatementChart("손익", data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderStatementChart_Empty(t *testing.T) {
	_, err := RenderStatementChart("empty", models.ChartData{})
	assert.Error(t, err)
}
