package financial

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/finlens/internal/models"
)

// Bar colours per dataset; the current period is solid, prior periods lighter
var datasetColors = []drawing.Color{
	drawing.ColorFromHex("2563eb"), // blue-600
	drawing.ColorFromHex("93c5fd"), // blue-300
	drawing.ColorFromHex("9ca3af"), // gray-400
}

const (
	barWidth      = 40
	barSpacing    = 20
	minChartWidth = 900
)

// RenderStatementChart renders chart data as a PNG bar chart. Bars are
// grouped by label with one bar per dataset.
func RenderStatementChart(title string, data models.ChartData) ([]byte, error) {
	if len(data.Labels) == 0 || len(data.Datasets) == 0 {
		return nil, fmt.Errorf("chart has no data")
	}

	var bars []chart.Value
	minV, maxV := 0.0, 0.0
	for i, label := range data.Labels {
		for d, ds := range data.Datasets {
			if i >= len(ds.Data) {
				continue
			}
			v := ds.Data[i]
			name := label
			if len(data.Datasets) > 1 {
				name = label + " " + ds.Label
			}
			bars = append(bars, chart.Value{
				Label: name,
				Value: v,
				Style: chart.Style{
					FillColor:   datasetColors[d%len(datasetColors)],
					StrokeColor: datasetColors[d%len(datasetColors)],
					StrokeWidth: 1,
				},
			})
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("chart has no data")
	}
	if maxV == minV {
		maxV = minV + 1
	}
	pad := (maxV - minV) * 0.1
	low, high := minV, maxV+pad
	if low < 0 {
		low -= pad
	}

	width := len(bars)*(barWidth+barSpacing) + 200
	if width < minChartWidth {
		width = minChartWidth
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: 420,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: low, Max: high},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.FormatFloat(f, 'f', 0, 64)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
