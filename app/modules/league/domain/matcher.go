package leaguedomain

// GuessTeam returns the league team whose members best overlap ids.
//
// Each team with at least one member scores |members ∩ ids| / |members|. The
// strictly highest score wins, so ties keep the first team in stored order.
// It returns nil when ids is empty, the league has no teams, or no team overlaps.
func (l *League) GuessTeam(ids []PlayerID) *LeagueTeam {
	if len(l.teams) == 0 || len(ids) == 0 {
		return nil
	}

	seen := make(map[PlayerID]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	var best *LeagueTeam
	bestScore := 0.0
	for _, team := range l.teams {
		if len(team.Members) == 0 {
			continue
		}
		hits := 0
		for _, m := range team.Members {
			if _, ok := seen[m]; ok {
				hits++
			}
		}
		score := float64(hits) / float64(len(team.Members))
		if score > bestScore {
			bestScore = score
			best = team
		}
	}
	return best
}

// GuessTeams partitions a server game's players by server team, in first-seen
// order, and guesses a league team for each partition.
func (l *League) GuessTeams(game *ServerGame) []*LeagueTeam {
	var result []*LeagueTeam
	for _, part := range partitionByServerTeam(game.Players) {
		ids := make([]PlayerID, len(part))
		for i, sp := range part {
			ids[i] = sp.PlayerID
		}
		result = append(result, l.GuessTeam(ids))
	}
	return result
}

func partitionByServerTeam(players []*ServerPlayer) [][]*ServerPlayer {
	order := []int{}
	parts := make(map[int][]*ServerPlayer)
	for _, sp := range players {
		if _, ok := parts[sp.ServerTeamID]; !ok {
			order = append(order, sp.ServerTeamID)
		}
		parts[sp.ServerTeamID] = append(parts[sp.ServerTeamID], sp)
	}

	out := make([][]*ServerPlayer, len(order))
	for i, id := range order {
		out[i] = parts[id]
	}
	return out
}
