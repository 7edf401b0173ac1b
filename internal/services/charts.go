package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/reports"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	incomeStroke  = drawing.ColorFromHex(incomeColor)
	expenseStroke = drawing.ColorFromHex(expenseColor)
)

// ChartRenderer draws report views as PNG images
type ChartRenderer struct{}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{}
}

// YearlyChart draws the income and expense series over the twelve months.
// Returns nil when the year holds no amounts.
func (r *ChartRenderer) YearlyChart(year int, series reports.YearlyChartSeries) ([]byte, error) {
	if len(series.Series) == 0 || allZero(series.Series) {
		return nil, nil
	}

	xValues := make([]float64, len(series.Categories))
	ticks := make([]chart.Tick, len(series.Categories))
	for i, idx := range series.Categories {
		xValues[i] = float64(idx)
		ticks[i] = chart.Tick{Value: float64(idx), Label: time.Month(idx + 1).String()[:3]}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Income vs Expense %d", year),
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
	}

	for _, s := range series.Series {
		stroke := expenseStroke
		if s.Name == "Income" {
			stroke = incomeStroke
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xValues,
			YValues: floats(s.Data),
			Style:   chart.Style{StrokeColor: stroke, StrokeWidth: 2},
		})
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: 12, FontColor: chart.ColorBlack}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render yearly chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// TopExpensesChart draws the expense categories as a pie.
// Returns nil when there is nothing to draw.
func (r *ChartRenderer) TopExpensesChart(report reports.TopExpenseCategoriesReport) ([]byte, error) {
	total := decimal.Zero
	for _, v := range report.Series {
		total = total.Add(v)
	}
	if !total.IsPositive() {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(report.Series))
	for i, v := range report.Series {
		if !v.IsPositive() {
			continue
		}
		share := v.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", report.Categories[i], v.StringFixed(0), share),
			Value: v.InexactFloat64(),
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		})
	}

	pie := chart.PieChart{
		Title:  "Top expense categories",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render top expenses chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

func allZero(series []reports.Series) bool {
	for _, s := range series {
		for _, v := range s.Data {
			if !v.IsZero() {
				return false
			}
		}
	}
	return true
}
