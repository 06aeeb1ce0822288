package leaguedomain

import "github.com/google/uuid"

// GameTeamRef identifies one team's participation in one game.
type GameTeamRef struct {
	Game   uuid.UUID
	TeamID TeamID
}

// GamePlayerRef identifies one player's participation in one game.
type GamePlayerRef struct {
	Game     uuid.UUID
	PlayerID PlayerID
}

// Links holds every relationship derived from the persisted id fields.
// It is rebuilt from scratch; nothing in it is ever persisted.
type Links struct {
	// TeamPlayed lists, per league team, the game teams it has fielded in chronological order.
	TeamPlayed map[TeamID][]GameTeamRef
	// PlayerPlayed lists, per league player, the game players it has played as.
	PlayerPlayed map[PlayerID][]GamePlayerRef
	// GameTeamPlayers lists the members of each linked game team.
	GameTeamPlayers map[GameTeamRef][]PlayerID
	// PlayerLeague maps a game player to its league player.
	PlayerLeague map[GamePlayerRef]PlayerID
	// PlayerGame maps every game player to its owning game, linked or not.
	PlayerGame map[GamePlayerRef]uuid.UUID
}

func newLinks() *Links {
	return &Links{
		TeamPlayed:      make(map[TeamID][]GameTeamRef),
		PlayerPlayed:    make(map[PlayerID][]GamePlayerRef),
		GameTeamPlayers: make(map[GameTeamRef][]PlayerID),
		PlayerLeague:    make(map[GamePlayerRef]PlayerID),
		PlayerGame:      make(map[GamePlayerRef]uuid.UUID),
	}
}

// RebuildLinks derives the link table for l. It does not modify l.
//
// A game team whose TeamID matches no league team is left unlinked, and so are
// its players. Within a linked team only players who are members of the league
// team are wired to a league player.
func RebuildLinks(l *League) *Links {
	links := newLinks()

	for _, g := range l.games {
		for _, gt := range g.Teams {
			team := l.Team(gt.TeamID)
			if team == nil {
				continue
			}

			ref := GameTeamRef{Game: g.ID, TeamID: gt.TeamID}
			if _, seen := links.GameTeamPlayers[ref]; seen {
				continue
			}
			links.TeamPlayed[team.ID] = append(links.TeamPlayed[team.ID], ref)

			members := []PlayerID{}
			for _, gp := range g.TeamPlayers(gt.TeamID) {
				members = append(members, gp.PlayerID)
				if !team.HasMember(gp.PlayerID) || l.Player(gp.PlayerID) == nil {
					continue
				}
				pref := GamePlayerRef{Game: g.ID, PlayerID: gp.PlayerID}
				if _, linked := links.PlayerLeague[pref]; linked {
					continue
				}
				links.PlayerLeague[pref] = gp.PlayerID
				links.PlayerPlayed[gp.PlayerID] = append(links.PlayerPlayed[gp.PlayerID], pref)
			}
			links.GameTeamPlayers[ref] = members
		}

		for _, gp := range g.Players {
			links.PlayerGame[GamePlayerRef{Game: g.ID, PlayerID: gp.PlayerID}] = g.ID
		}
	}

	return links
}

// Relink sorts the teams and rebuilds every derived link. Run it after a load
// or any structural change.
func (l *League) Relink() {
	l.SortTeams()
	l.links = RebuildLinks(l)
}

// Links returns the current link table, building it on first use.
func (l *League) Links() *Links {
	if l.links == nil {
		l.links = RebuildLinks(l)
	}
	return l.links
}

// TeamPlayed returns the game teams a league team has fielded, optionally
// leaving out secret games.
func (l *League) TeamPlayed(id TeamID, includeSecret bool) []*GameTeam {
	var out []*GameTeam
	for _, ref := range l.Links().TeamPlayed[id] {
		g := l.Game(ref.Game)
		if g == nil || (g.Secret && !includeSecret) {
			continue
		}
		if gt := g.Team(ref.TeamID); gt != nil {
			out = append(out, gt)
		}
	}
	return out
}

// PlayerPlayed returns the game players a league player has played as.
func (l *League) PlayerPlayed(id PlayerID, includeSecret bool) []*GamePlayer {
	var out []*GamePlayer
	for _, ref := range l.Links().PlayerPlayed[id] {
		g := l.Game(ref.Game)
		if g == nil || (g.Secret && !includeSecret) {
			continue
		}
		if gp := g.Player(ref.PlayerID); gp != nil {
			out = append(out, gp)
		}
	}
	return out
}

// LeaguePlayerFor returns the league player a game player is linked to, or nil.
func (l *League) LeaguePlayerFor(g *Game, gp *GamePlayer) *LeaguePlayer {
	id, ok := l.Links().PlayerLeague[GamePlayerRef{Game: g.ID, PlayerID: gp.PlayerID}]
	if !ok {
		return nil
	}
	return l.Player(id)
}
