package leaguedoc

import "encoding/xml"

// Every value is carried as text so that malformed numbers can be tolerated on
// load instead of failing the whole document.

type bodyElem struct {
	XMLName        xml.Name   `xml:"body"`
	GridHigh       string     `xml:"GridHigh"`
	GridWide       string     `xml:"GridWide"`
	GridPlayers    string     `xml:"GridPlayers"`
	SortMode       string     `xml:"SortMode"`
	HandicapStyle  string     `xml:"HandicapStyle"`
	SortByRank     string     `xml:"SortByRank,omitempty"`
	AutoUpdate     string     `xml:"AutoUpdate"`
	UpdateTeams    string     `xml:"UpdateTeams"`
	ElimMultiplier string     `xml:"ElimMultiplier,omitempty"`
	Points         []string   `xml:"Points"`
	High           string     `xml:"High,omitempty"`
	Proportional   string     `xml:"Proportional,omitempty"`
	Teams          []teamElem `xml:"leaguelist>team"`
	Games          []gameElem `xml:"games>game"`
}

type teamElem struct {
	Name     string       `xml:"teamname,omitempty"`
	ID       string       `xml:"teamid"`
	Handicap string       `xml:"handicap,omitempty"`
	Comment  string       `xml:"comment,omitempty"`
	Players  []playerElem `xml:"players>player"`
}

type playerElem struct {
	Name     string `xml:"name,omitempty"`
	ID       string `xml:"buttonid,omitempty"`
	Handicap string `xml:"handicap,omitempty"`
	Comment  string `xml:"comment,omitempty"`
}

type gameElem struct {
	Title        string           `xml:"title,omitempty"`
	AnsiGameTime string           `xml:"ansigametime,omitempty"`
	GameTime     string           `xml:"gametime,omitempty"`
	Hits         string           `xml:"hits"`
	Secret       string           `xml:"secret,omitempty"`
	Teams        []gameTeamElem   `xml:"teams>team"`
	Players      []gamePlayerElem `xml:"players>player"`
}

type gameTeamElem struct {
	TeamID                  string `xml:"teamid"`
	Colour                  string `xml:"colour,omitempty"`
	Score                   string `xml:"score"`
	Points                  string `xml:"points,omitempty"`
	Adjustment              string `xml:"adjustment,omitempty"`
	VictoryPointsAdjustment string `xml:"victorypointsadjustment,omitempty"`
}

type gamePlayerElem struct {
	TeamID       string `xml:"teamid"`
	PlayerID     string `xml:"playerid,omitempty"`
	Pack         string `xml:"pack,omitempty"`
	Score        string `xml:"score"`
	Rank         string `xml:"rank"`
	HitsBy       string `xml:"hitsby,omitempty"`
	HitsOn       string `xml:"hitson,omitempty"`
	BaseHits     string `xml:"basehits,omitempty"`
	BaseDestroys string `xml:"basedestroys,omitempty"`
	BaseDenies   string `xml:"basedenies,omitempty"`
	BaseDenied   string `xml:"basedenied,omitempty"`
	YellowCards  string `xml:"yellowcards,omitempty"`
	RedCards     string `xml:"redcards,omitempty"`
	Colour       string `xml:"colour,omitempty"`
}
