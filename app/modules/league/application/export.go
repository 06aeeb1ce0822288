package leagueservice

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

const (
	standingsSheet = "Standings"
	gamesSheet     = "Games"
	exportTimeFmt  = "2006-01-02 15:04"
)

var (
	standingsHeader = []any{"Position", "Team", "Played", "Total Score", "Average Score", "Total Points", "Average Points"}
	gamesHeader     = []any{"Time", "Title", "Team", "Colour", "Score", "Points", "Players"}
)

// ExportWorkbook writes the held league as an XLSX workbook with a standings
// sheet and one row per game team on a games sheet.
func (s *LeagueService) ExportWorkbook(w io.Writer, includeSecret bool) error {
	if err := WriteWorkbook(w, s.league, includeSecret); err != nil {
		s.logger.Error("Failed to export league workbook", "title", s.league.Title, "error", err)
		return err
	}
	return nil
}

// WriteWorkbook writes l as an XLSX workbook to w.
func WriteWorkbook(w io.Writer, l *leaguedomain.League, includeSecret bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), standingsSheet); err != nil {
		return fmt.Errorf("failed to name standings sheet: %w", err)
	}
	if _, err := f.NewSheet(gamesSheet); err != nil {
		return fmt.Errorf("failed to create games sheet: %w", err)
	}

	rows := [][]any{standingsHeader}
	for i, st := range l.Standings(includeSecret) {
		rows = append(rows, []any{i + 1, st.Name, st.Played, st.TotalScore, st.AverageScore, st.TotalPoints, st.AveragePoints})
	}
	if err := writeRows(f, standingsSheet, rows); err != nil {
		return err
	}

	rows = [][]any{gamesHeader}
	for _, g := range l.Games(includeSecret) {
		for _, gt := range g.Teams {
			rows = append(rows, []any{
				g.Time.Format(exportTimeFmt),
				g.Title,
				l.GameTeamName(gt),
				g.TeamColour(gt).String(),
				gt.Score,
				gt.Points,
				len(g.TeamPlayers(gt.TeamID)),
			})
		}
	}
	if err := writeRows(f, gamesSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", idx+1, err)
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, idx+1, err)
		}
	}
	return nil
}
