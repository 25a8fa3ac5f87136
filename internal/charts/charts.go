package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// ChartGenerator renders the bot's stat charts as PNG images.
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// SubmissionStatus renders a bar chart of submission counts by status.
// Returns nil bytes when there is nothing to draw.
func (g *ChartGenerator) SubmissionStatus(pending, approved, rejected int) ([]byte, error) {
	total := pending + approved + rejected
	if total == 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:    "Your Submissions",
		Width:    600,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: []chart.Value{
			{
				Value: float64(pending),
				Label: "Pending",
				Style: chart.Style{
					FillColor:   chart.ColorOrange,
					StrokeColor: chart.ColorOrange,
				},
			},
			{
				Value: float64(approved),
				Label: "Approved",
				Style: chart.Style{
					FillColor:   chart.ColorGreen,
					StrokeColor: chart.ColorGreen,
				},
			},
			{
				Value: float64(rejected),
				Label: "Rejected",
				Style: chart.Style{
					FillColor:   chart.ColorRed,
					StrokeColor: chart.ColorRed,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render submissions chart: %w", err)
	}
	return buf.Bytes(), nil
}
