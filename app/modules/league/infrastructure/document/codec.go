// Package leaguedoc reads and writes league documents: the XML ".Torn" format
// holding a league's teams, players and game history.
package leaguedoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

// TimeLayout is how game times are written.
const TimeLayout = "2006/01/02 15:04:05"

// Layouts accepted when reading game times, tried in order.
var readLayouts = []string{
	TimeLayout,
	"2006/01/02 15:04",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
}

// Codec converts between leagues and documents. Game times are written as wall
// clock times in Location and read back in the same location.
type Codec struct {
	Location *time.Location
}

// DefaultCodec reads and writes game times in the local time zone.
var DefaultCodec = Codec{Location: time.Local}

// Decode reads a document with the default codec.
func Decode(r io.Reader, title string) (*leaguedomain.League, error) {
	return DefaultCodec.Decode(r, title)
}

// Encode writes a document with the default codec.
func Encode(w io.Writer, l *leaguedomain.League) error {
	return DefaultCodec.Encode(w, l)
}

func (c Codec) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Decode reads a league document. Missing elements read as zero or empty, and
// so do unparseable numbers and times. A handicap that cannot be parsed fails the decode.
// The returned league is linked.
func (c Codec) Decode(r io.Reader, title string) (*leaguedomain.League, error) {
	var body bodyElem
	if err := xml.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode league document: %w", err)
	}

	l := leaguedomain.NewLeague()
	l.Title = title
	l.Grid = leaguedomain.GridConfig{
		High:           atoi(body.GridHigh),
		Wide:           atoi(body.GridWide),
		Players:        atoi(body.GridPlayers),
		SortMode:       atoi(body.SortMode),
		SortByRank:     atoi(body.SortByRank),
		AutoUpdate:     atoi(body.AutoUpdate),
		UpdateTeams:    atoi(body.UpdateTeams),
		ElimMultiplier: atoi(body.ElimMultiplier),
	}
	l.HandicapStyle = leaguedomain.ParseHandicapStyle(body.HandicapStyle)
	for _, p := range body.Points {
		l.VictoryPoints = append(l.VictoryPoints, atof(p))
	}
	l.VictoryPointsHighScore = atof(body.High)
	l.VictoryPointsProportional = atof(body.Proportional)

	for _, te := range body.Teams {
		if err := decodeTeam(l, te); err != nil {
			return nil, err
		}
	}

	for _, ge := range body.Games {
		l.AddGame(c.decodeGame(ge))
	}

	l.Relink()
	return l, nil
}

func decodeTeam(l *leaguedomain.League, te teamElem) error {
	handicap, err := leaguedomain.ParseHandicap(te.Handicap)
	if err != nil {
		return fmt.Errorf("failed to read handicap of team %q: %w", te.Name, err)
	}
	team := &leaguedomain.LeagueTeam{
		ID:       leaguedomain.TeamID(atoi(te.ID)),
		Name:     te.Name,
		Handicap: handicap,
		Comment:  te.Comment,
	}

	for _, pe := range te.Players {
		id := leaguedomain.PlayerID(pe.ID)
		ph, err := leaguedomain.ParseHandicap(pe.Handicap)
		if err != nil {
			return fmt.Errorf("failed to read handicap of player %q: %w", pe.ID, err)
		}

		// A player listed under several teams is one league player; the last listing wins.
		p, _ := l.EnsurePlayer(id, pe.Name)
		p.Name = pe.Name
		p.Handicap = ph
		p.Comment = pe.Comment

		team.AddMember(id)
	}

	// A team whose id is missing or already taken is kept under the next free id.
	if l.Team(team.ID) != nil {
		team.ID = l.NextTeamID()
	}
	if err := l.AddTeam(team); err != nil {
		return fmt.Errorf("failed to add team %q: %w", te.Name, err)
	}
	return nil
}

func (c Codec) decodeGame(ge gameElem) *leaguedomain.Game {
	g := leaguedomain.NewGame()
	g.Title = ge.Title
	g.Secret = parseSecret(ge.Secret)
	g.Time = c.parseGameTime(ge)

	for _, te := range ge.Teams {
		g.Teams = append(g.Teams, &leaguedomain.GameTeam{
			TeamID:           leaguedomain.TeamID(atoi(te.TeamID)),
			Colour:           leaguedomain.ParseColour(te.Colour),
			Score:            atoi(te.Score),
			Points:           atoi(te.Points),
			Adjustment:       atoi(te.Adjustment),
			PointsAdjustment: atoi(te.VictoryPointsAdjustment),
		})
	}
	g.SortTeams()

	for _, pe := range ge.Players {
		gp := &leaguedomain.GamePlayer{
			GameTeamID:   leaguedomain.TeamID(atoi(pe.TeamID)),
			PlayerID:     leaguedomain.PlayerID(pe.PlayerID),
			Pack:         pe.Pack,
			Score:        atoi(pe.Score),
			Rank:         uint(max(atoi(pe.Rank), 0)),
			HitsBy:       atoi(pe.HitsBy),
			HitsOn:       atoi(pe.HitsOn),
			BaseHits:     atoi(pe.BaseHits),
			BaseDestroys: atoi(pe.BaseDestroys),
			BaseDenies:   atoi(pe.BaseDenies),
			BaseDenied:   atoi(pe.BaseDenied),
			YellowCards:  atoi(pe.YellowCards),
			RedCards:     atoi(pe.RedCards),
		}
		if pe.Colour != "" {
			// Stored zero-based: Red is 0.
			if colour := leaguedomain.Colour(atoi(pe.Colour) + 1); colour.Valid() {
				gp.Colour = colour
			}
		}
		g.Players = append(g.Players, gp)
	}

	return g
}

// legacyEpoch is day zero of the legacy fractional-day "gametime" element.
func (c Codec) legacyEpoch() time.Time {
	return time.Date(1899, time.December, 30, 0, 0, 0, 0, c.location())
}

// parseGameTime prefers ansigametime and falls back to the legacy day offset.
// A time that cannot be read in either form is the zero time.
func (c Codec) parseGameTime(ge gameElem) time.Time {
	if s := strings.TrimSpace(ge.AnsiGameTime); s != "" {
		for _, layout := range readLayouts {
			if t, err := time.ParseInLocation(layout, s, c.location()); err == nil {
				return t
			}
		}
	}

	if s := strings.TrimSpace(ge.GameTime); s != "" {
		days, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(days) && !math.IsInf(days, 0) {
			whole := math.Floor(days)
			offset := time.Duration(math.Round((days - whole) * float64(24*time.Hour) / float64(time.Second))) * time.Second
			return c.legacyEpoch().AddDate(0, 0, int(whole)).Add(offset)
		}
	}

	return time.Time{}
}

func parseSecret(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "y", "yes", "1":
		return true
	}
	return false
}

// Encode writes l as an indented document.
func (c Codec) Encode(w io.Writer, l *leaguedomain.League) error {
	body := bodyElem{
		GridHigh:       itoa(l.Grid.High),
		GridWide:       itoa(l.Grid.Wide),
		GridPlayers:    itoa(l.Grid.Players),
		SortMode:       itoa(l.Grid.SortMode),
		HandicapStyle:  l.HandicapStyle.Symbol(),
		SortByRank:     nonZero(l.Grid.SortByRank),
		AutoUpdate:     itoa(l.Grid.AutoUpdate),
		UpdateTeams:    itoa(l.Grid.UpdateTeams),
		ElimMultiplier: nonZero(l.Grid.ElimMultiplier),
		High:           nonZeroFloat(l.VictoryPointsHighScore),
		Proportional:   nonZeroFloat(l.VictoryPointsProportional),
	}
	for _, p := range l.VictoryPoints {
		body.Points = append(body.Points, ftoa(p))
	}

	for _, team := range l.Teams() {
		te := teamElem{
			Name:    l.TeamName(team),
			ID:      team.ID.String(),
			Comment: team.Comment,
		}
		if team.Handicap.Persistable() {
			te.Handicap = team.Handicap.String()
		}
		for _, id := range team.Members {
			pe := playerElem{ID: string(id)}
			if p := l.Player(id); p != nil {
				pe.Name = p.Name
				pe.Comment = p.Comment
				if p.Handicap.Persistable() {
					pe.Handicap = p.Handicap.String()
				}
			}
			te.Players = append(te.Players, pe)
		}
		body.Teams = append(body.Teams, te)
	}

	for _, g := range l.AllGames() {
		body.Games = append(body.Games, c.encodeGame(g))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write league document: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("failed to encode league document: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write league document: %w", err)
	}
	return nil
}

func (c Codec) encodeGame(g *leaguedomain.Game) gameElem {
	ge := gameElem{
		Title:        g.Title,
		AnsiGameTime: g.Time.In(c.location()).Format(TimeLayout),
		Hits:         itoa(g.Hits()),
	}
	if g.Secret {
		ge.Secret = "true"
	}

	for _, gt := range g.Teams {
		ge.Teams = append(ge.Teams, gameTeamElem{
			TeamID:                  gt.TeamID.String(),
			Colour:                  g.TeamColour(gt).String(),
			Score:                   itoa(gt.Score),
			Points:                  nonZero(gt.Points),
			Adjustment:              nonZero(gt.Adjustment),
			VictoryPointsAdjustment: nonZero(gt.PointsAdjustment),
		})
	}

	for _, gp := range g.Players {
		pe := gamePlayerElem{
			TeamID:       gp.GameTeamID.String(),
			PlayerID:     string(gp.PlayerID),
			Pack:         gp.Pack,
			Score:        itoa(gp.Score),
			Rank:         strconv.FormatUint(uint64(gp.Rank), 10),
			HitsBy:       nonZero(gp.HitsBy),
			HitsOn:       nonZero(gp.HitsOn),
			BaseHits:     nonZero(gp.BaseHits),
			BaseDestroys: nonZero(gp.BaseDestroys),
			BaseDenies:   nonZero(gp.BaseDenies),
			BaseDenied:   nonZero(gp.BaseDenied),
			YellowCards:  nonZero(gp.YellowCards),
			RedCards:     nonZero(gp.RedCards),
		}
		if gp.Colour != leaguedomain.ColourNone && gp.Colour.Valid() {
			pe.Colour = itoa(int(gp.Colour) - 1)
		}
		ge.Players = append(ge.Players, pe)
	}
	return ge
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func nonZero(n int) string {
	if n == 0 {
		return ""
	}
	return itoa(n)
}

func nonZeroFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return ftoa(f)
}
