package leaguedomain

import (
	"cmp"
	"slices"
)

// Standing summarises one league team's record.
type Standing struct {
	TeamID        TeamID
	Name          string
	Played        int
	TotalScore    int
	TotalPoints   int
	AverageScore  float64
	AveragePoints float64
}

// AverageScore is the team's mean game score; 0 when it has not played.
func (l *League) AverageScore(id TeamID, includeSecret bool) float64 {
	played := l.TeamPlayed(id, includeSecret)
	if len(played) == 0 {
		return 0
	}
	total := 0
	for _, gt := range played {
		total += gt.Score
	}
	return float64(total) / float64(len(played))
}

// AveragePoints is the team's mean victory points; 0 when it has not played.
func (l *League) AveragePoints(id TeamID, includeSecret bool) float64 {
	played := l.TeamPlayed(id, includeSecret)
	if len(played) == 0 {
		return 0
	}
	total := 0
	for _, gt := range played {
		total += gt.Points
	}
	return float64(total) / float64(len(played))
}

// Standings ranks every league team. Points-based leagues rank by total points,
// then average score; others rank by average score.
func (l *League) Standings(includeSecret bool) []Standing {
	pointsBased := l.IsPointsBased()

	out := make([]Standing, 0, len(l.teams))
	for _, t := range l.teams {
		s := Standing{TeamID: t.ID, Name: l.TeamName(t)}
		for _, gt := range l.TeamPlayed(t.ID, includeSecret) {
			s.Played++
			s.TotalScore += gt.Score
			s.TotalPoints += gt.Points
		}
		if s.Played > 0 {
			s.AverageScore = float64(s.TotalScore) / float64(s.Played)
			s.AveragePoints = float64(s.TotalPoints) / float64(s.Played)
		}
		out = append(out, s)
	}

	slices.SortStableFunc(out, func(a, b Standing) int {
		if pointsBased {
			if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
				return c
			}
		}
		return cmp.Compare(b.AverageScore, a.AverageScore)
	})
	return out
}
