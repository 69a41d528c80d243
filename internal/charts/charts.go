// Package charts renders analytics as PNG images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/repository"
)

// Generator draws charts with amounts formatted in a fixed currency.
type Generator struct {
	currency model.Currency
}

func NewGenerator(currency model.Currency) *Generator {
	return &Generator{currency: currency}
}

// CategoryBreakdown renders the breakdown as a bar chart. Returns nil
// bytes when there is nothing to draw.
func (g *Generator) CategoryBreakdown(title string, rows []repository.CategoryAmount) ([]byte, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, len(rows))
	for i, row := range rows {
		amount, _ := row.Amount.Float64()
		bars[i] = chart.Value{
			Label: row.Category,
			Value: amount,
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   500,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   40,
				Right:  40,
				Bottom: 40,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{
			FontSize:  11,
			FontColor: chart.ColorBlack,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontSize:  11,
				FontColor: chart.ColorBlack,
			},
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				return g.currency.Format(decimal.NewFromFloat(f))
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buf.Bytes(), nil
}
