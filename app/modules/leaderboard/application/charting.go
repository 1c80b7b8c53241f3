package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/lensboard/app/modules/leaderboard/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the chart colors.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette is used when no palette is configured.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("101418"),
	Bar:        drawing.ColorFromHex("f5c542"),
	TextColor:  drawing.ColorFromHex("e8e8e8"),
}

// RenderChart renders the leaderboard view as a PNG bar chart.
func (s *LeaderboardService) RenderChart(ctx context.Context, q Query) ([]byte, error) {
	board, err := s.GetLeaderboard(ctx, q)
	if err != nil {
		return nil, err
	}
	return GenerateLeaderboardChart(board.Entries, s.cfg.Palette)
}

// GenerateLeaderboardChart produces a PNG bar chart with one bar per entry.
func GenerateLeaderboardChart(entries []leaderboarddomain.Entry, palette ChartPalette) ([]byte, error) {
	if len(entries) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	bars := make([]chart.Value, 0, len(entries))
	lo, hi := 0.0, 0.0
	for _, e := range entries {
		v := float64(e.Score)
		lo = min(lo, v)
		hi = max(hi, v)
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("#%d %s", e.Rank, e.Name),
			Value: v,
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		})
	}
	// go-chart rejects a zero-height range.
	if hi == lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      "Leaderboard",
		TitleStyle: chart.Style{FontColor: palette.TextColor},
		Width:      900,
		Height:     400,
		BarWidth:   50,
		BarSpacing: 20,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.TextColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: palette.TextColor},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws the message straight onto a PNG canvas;
// go-chart refuses to render a chart without series or bars.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No scores yet"
	)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
