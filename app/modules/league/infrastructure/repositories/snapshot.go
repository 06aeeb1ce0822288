package leaguedb

import (
	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

// NoTeam is the team id recorded for league players who belong to no team.
const NoTeam = -1

// NewSnapshot flattens a league into mirror rows. League ids are left zero;
// SyncLeague fills them in.
func NewSnapshot(l *leaguedomain.League, sourcePath string) *Snapshot {
	s := &Snapshot{
		League: League{
			Title:         l.Title,
			HandicapStyle: l.HandicapStyle.Symbol(),
			SourcePath:    sourcePath,
		},
	}

	listed := make(map[leaguedomain.PlayerID]bool)
	for _, t := range l.Teams() {
		s.Teams = append(s.Teams, &Team{
			TeamID:   int(t.ID),
			Name:     l.TeamName(t),
			Handicap: t.Handicap.String(),
			Comment:  t.Comment,
		})
		for _, id := range t.Members {
			s.Players = append(s.Players, playerRow(l, id, int(t.ID)))
			listed[id] = true
		}
	}
	for _, p := range l.Players() {
		if !listed[p.ID] {
			s.Players = append(s.Players, playerRow(l, p.ID, NoTeam))
		}
	}

	for _, g := range l.AllGames() {
		s.Games = append(s.Games, &Game{
			ID:       g.ID,
			Title:    g.Title,
			PlayedAt: g.Time,
			Secret:   g.Secret,
			Hits:     g.Hits(),
		})
		for _, gt := range g.Teams {
			s.GameTeams = append(s.GameTeams, &GameTeam{
				GameID:           g.ID,
				TeamID:           int(gt.TeamID),
				Colour:           g.TeamColour(gt).String(),
				Score:            gt.Score,
				Points:           gt.Points,
				Adjustment:       gt.Adjustment,
				PointsAdjustment: gt.PointsAdjustment,
			})
		}
		for _, gp := range g.Players {
			s.GamePlayers = append(s.GamePlayers, &GamePlayer{
				GameID:       g.ID,
				PlayerID:     string(gp.PlayerID),
				TeamID:       int(gp.GameTeamID),
				Pack:         gp.Pack,
				Score:        gp.Score,
				Rank:         int(gp.Rank),
				Colour:       gp.Colour.String(),
				HitsBy:       gp.HitsBy,
				HitsOn:       gp.HitsOn,
				BaseHits:     gp.BaseHits,
				BaseDestroys: gp.BaseDestroys,
				BaseDenies:   gp.BaseDenies,
				BaseDenied:   gp.BaseDenied,
				YellowCards:  gp.YellowCards,
				RedCards:     gp.RedCards,
			})
		}
	}

	for i, st := range l.Standings(false) {
		s.Standings = append(s.Standings, &Standing{
			TeamID:        int(st.TeamID),
			Position:      i + 1,
			Name:          st.Name,
			Played:        st.Played,
			TotalScore:    st.TotalScore,
			TotalPoints:   st.TotalPoints,
			AverageScore:  st.AverageScore,
			AveragePoints: st.AveragePoints,
		})
	}
	return s
}

func playerRow(l *leaguedomain.League, id leaguedomain.PlayerID, teamID int) *Player {
	row := &Player{PlayerID: string(id), TeamID: teamID, Name: string(id)}
	if p := l.Player(id); p != nil {
		if p.Name != "" {
			row.Name = p.Name
		}
		row.Handicap = p.Handicap.String()
		row.Comment = p.Comment
	}
	return row
}

// setLeagueID stamps every row with the league's database id.
func (s *Snapshot) setLeagueID(id int64) {
	s.League.ID = id
	for _, r := range s.Teams {
		r.LeagueID = id
	}
	for _, r := range s.Players {
		r.LeagueID = id
	}
	for _, r := range s.Games {
		r.LeagueID = id
	}
	for _, r := range s.GameTeams {
		r.LeagueID = id
	}
	for _, r := range s.GamePlayers {
		r.LeagueID = id
	}
	for _, r := range s.Standings {
		r.LeagueID = id
	}
}
