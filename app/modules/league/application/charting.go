package leagueservice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

// ChartPalette holds the non-series colours of a chart.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	GridColor  drawing.Color
}

// DefaultChartPalette is a dark background with light text.
var DefaultChartPalette = ChartPalette{
	Background: drawing.Color{R: 0x1E, G: 0x1E, B: 0x24, A: 0xFF},
	TextColor:  drawing.Color{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF},
	GridColor:  drawing.Color{R: 0x44, G: 0x44, B: 0x4C, A: 0xFF},
}

// TeamSeries is one team's score history.
type TeamSeries struct {
	TeamID leaguedomain.TeamID
	Name   string
	Colour leaguedomain.Colour
	Times  []time.Time
	Scores []float64
}

// ScoreHistory collects each team's game scores in chronological order. Teams
// that have not played are left out. A team's colour is the one it wore most
// recently.
func ScoreHistory(l *leaguedomain.League, includeSecret bool) []TeamSeries {
	var out []TeamSeries
	for _, t := range l.Teams() {
		s := TeamSeries{TeamID: t.ID, Name: l.TeamName(t)}
		for _, g := range l.Games(includeSecret) {
			gt := g.Team(t.ID)
			if gt == nil {
				continue
			}
			s.Times = append(s.Times, g.Time)
			s.Scores = append(s.Scores, float64(gt.Score))
			s.Colour = g.TeamColour(gt)
		}
		if len(s.Times) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ScoreHistoryChart renders the held league's score history as a PNG line chart.
func (s *LeagueService) ScoreHistoryChart(includeSecret bool, palette ChartPalette) ([]byte, error) {
	return GenerateScoreHistoryChart(ScoreHistory(s.league, includeSecret), palette)
}

// GenerateScoreHistoryChart renders one line per team. With fewer than two
// distinct game times there is nothing to plot and a placeholder is rendered.
func GenerateScoreHistoryChart(history []TeamSeries, palette ChartPalette) ([]byte, error) {
	minTime, maxTime, minScore, maxScore, ok := historyBounds(history)
	if !ok || !maxTime.After(minTime) {
		return renderNoDataPlaceholder(palette)
	}
	if maxScore == minScore {
		minScore--
		maxScore++
	}

	series := make([]chart.Series, 0, len(history))
	for _, h := range history {
		r, g, b := h.Colour.RGB()
		colour := drawing.Color{R: r, G: g, B: b, A: 0xFF}
		series = append(series, chart.TimeSeries{
			Name:    h.Name,
			XValues: h.Times,
			YValues: h.Scores,
			Style: chart.Style{
				StrokeColor: colour,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    colour,
			},
		})
	}

	graph := chart.Chart{
		Width:  1000,
		Height: 500,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 160, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Game",
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Score",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: palette.GridColor,
				StrokeWidth: 1,
			},
			Range: &chart.ContinuousRange{Min: minScore, Max: maxScore},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.TextColor,
	})}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render score history chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func historyBounds(history []TeamSeries) (minTime, maxTime time.Time, minScore, maxScore float64, ok bool) {
	for _, h := range history {
		for i, t := range h.Times {
			v := h.Scores[i]
			if !ok {
				minTime, maxTime, minScore, maxScore, ok = t, t, v, v, true
				continue
			}
			if t.Before(minTime) {
				minTime = t
			}
			if t.After(maxTime) {
				maxTime = t
			}
			minScore = min(minScore, v)
			maxScore = max(maxScore, v)
		}
	}
	return minTime, maxTime, minScore, maxScore, ok
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No games played yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// go-chart refuses to render without a series.
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
