package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Black-And-White-Club/torn-league/app"
	leagueservice "github.com/Black-And-White-Club/torn-league/app/modules/league/application"
	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	"github.com/Black-And-White-Club/torn-league/app/modules/server/connectors"
	"github.com/Black-And-White-Club/torn-league/config"
)

const displayTime = "2006-01-02 15:04"

// setup loads configuration and builds the application. When open is set the
// league document is loaded, or started if it does not exist yet.
func setup(c *cli.Context, open bool) (*app.App, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := c.String("league"); path != "" {
		cfg.League.File = path
	}

	a, err := app.NewApp(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	if open {
		if err := a.OpenLeague(c.Context, ""); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func newTable(c *cli.Context) *tabwriter.Writer {
	return tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "create an empty league document",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "overwrite an existing document"},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c, false)
			if err != nil {
				return err
			}
			defer a.Close()

			path := c.Args().First()
			if path == "" {
				path = a.Cfg.League.File
			}
			if path == "" {
				return leagueservice.ErrNoLeagueFile
			}
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists; use --force to replace it", path)
			}

			if err := a.LeagueService.New(c.Context, path); err != nil {
				return err
			}
			if err := a.LeagueService.Save(c.Context, ""); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Created league %q at %s\n", a.LeagueService.Title(), path)
			return nil
		},
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "list games held on the game server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "since", Usage: `only games since, e.g. "3h", "yesterday", "2024-03-01"`},
			&cli.BoolFlag{Name: "players", Usage: "fetch and print each game's players"},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			conn, err := a.Connector(c.Context)
			if err != nil {
				return err
			}
			defer conn.Close()

			games, err := conn.ListGames(c.Context)
			if err != nil {
				return err
			}
			if since := c.String("since"); since != "" {
				t, err := connectors.ParseSince(since, time.Now().In(a.Location))
				if err != nil {
					return err
				}
				games = connectors.FilterSince(games, t)
			}

			league := a.LeagueService.League()
			tw := newTable(c)
			fmt.Fprintln(tw, "ID\tTIME\tDESCRIPTION\tCOMMITTED")
			for i := range games {
				g := &games[i]
				committed := ""
				if league.GameAt(g.Time) != nil {
					committed = "yes"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.GameID, g.Time.In(a.Location).Format(displayTime), g.Description, committed)
				if !c.Bool("players") {
					continue
				}
				if err := conn.PopulateRoster(c.Context, g); err != nil {
					return err
				}
				for _, p := range g.Players {
					fmt.Fprintf(tw, "\t  %s\t%s (%s)\t%d\n", p.Colour, p.Alias, p.PlayerID, p.Score)
				}
			}
			return tw.Flush()
		},
	}
}

// parseOverrides reads "serverTeam=leagueTeam" pairs.
func parseOverrides(pairs []string) (map[int]leaguedomain.TeamID, error) {
	out := make(map[int]leaguedomain.TeamID, len(pairs))
	for _, pair := range pairs {
		server, league, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid team override %q: want serverTeam=leagueTeam", pair)
		}
		s, err := strconv.Atoi(strings.TrimSpace(server))
		if err != nil {
			return nil, fmt.Errorf("invalid server team in %q: %w", pair, err)
		}
		l, err := strconv.Atoi(strings.TrimSpace(league))
		if err != nil {
			return nil, fmt.Errorf("invalid league team in %q: %w", pair, err)
		}
		out[s] = leaguedomain.TeamID(l)
	}
	return out, nil
}

func commitCommand() *cli.Command {
	return &cli.Command{
		Name:      "commit",
		Usage:     "commit a finished server game into the league",
		ArgsUsage: "<server game id>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "team", Usage: "force a server team onto a league team, as serverTeam=leagueTeam"},
			&cli.BoolFlag{Name: "secret", Usage: "hide the game from standings and listings"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the guessed teams without committing"},
		},
		Action: func(c *cli.Context) error {
			id, err := strconv.Atoi(c.Args().First())
			if err != nil {
				return fmt.Errorf("server game id required: %w", err)
			}
			overrides, err := parseOverrides(c.StringSlice("team"))
			if err != nil {
				return err
			}

			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			conn, err := a.Connector(c.Context)
			if err != nil {
				return err
			}
			defer conn.Close()

			games, err := conn.ListGames(c.Context)
			if err != nil {
				return err
			}
			var game *leaguedomain.ServerGame
			for i := range games {
				if games[i].GameID == id {
					game = &games[i]
					break
				}
			}
			if game == nil {
				return fmt.Errorf("server game %d not found", id)
			}

			rosters, err := connectors.RostersByServerTeam(c.Context, conn, game)
			if err != nil {
				return err
			}
			if len(rosters) == 0 {
				return leaguedomain.ErrEmptyRoster
			}

			guesses := a.LeagueService.GuessTeams(game)
			tw := newTable(c)
			fmt.Fprintln(tw, "SERVER TEAM\tCOLOUR\tPLAYERS\tLEAGUE TEAM")
			for i := range rosters {
				serverTeam := rosters[i].Players[0].ServerTeamID
				if teamID, ok := overrides[serverTeam]; ok {
					rosters[i].TeamID = &teamID
				}
				target := "new team"
				switch {
				case rosters[i].TeamID != nil:
					if t := a.LeagueService.Team(*rosters[i].TeamID); t != nil {
						target = a.LeagueService.League().TeamName(t) + " (forced)"
					} else {
						target = fmt.Sprintf("%d (unknown)", *rosters[i].TeamID)
					}
				case i < len(guesses) && guesses[i] != nil:
					target = a.LeagueService.League().TeamName(guesses[i])
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", serverTeam, rosters[i].Colour, len(rosters[i].Players), target)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if c.Bool("dry-run") {
				return nil
			}

			result, err := a.LeagueService.CommitGame(c.Context, game, rosters)
			if err != nil {
				return err
			}
			if c.Bool("secret") {
				result.Game.Secret = true
				a.LeagueService.League().Relink()
			}
			if !a.LeagueService.AutoSave || c.Bool("secret") {
				if err := a.LeagueService.Save(c.Context, ""); err != nil {
					return err
				}
			}
			fmt.Fprintf(c.App.Writer, "Committed game at %s: %s\n",
				result.Game.Time.In(a.Location).Format(displayTime),
				a.LeagueService.League().GameDescription(result.Game))
			return nil
		},
	}
}

func gamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "list the league's games",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "secret", Usage: "include secret games"},
			&cli.BoolFlag{Name: "mirror", Usage: "read from the reporting mirror instead of the document"},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := newTable(c)
			if c.Bool("mirror") {
				games, err := a.LeagueService.MirrorGames(c.Context, c.Bool("secret"))
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "TIME\tTITLE\tHITS")
				for _, g := range games {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", g.PlayedAt.In(a.Location).Format(displayTime), g.Title, g.Hits)
				}
				return tw.Flush()
			}

			league := a.LeagueService.League()
			fmt.Fprintln(tw, "TIME\tTITLE\tTEAMS\tHITS")
			for _, g := range a.LeagueService.Games(c.Bool("secret")) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", g.Time.In(a.Location).Format(displayTime), g.Title, league.GameDescription(g), g.Hits())
			}
			return tw.Flush()
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the league table",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "secret", Usage: "include secret games"},
			&cli.BoolFlag{Name: "mirror", Usage: "read from the reporting mirror instead of the document"},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := newTable(c)
			fmt.Fprintln(tw, "POS\tTEAM\tPLAYED\tAVG SCORE\tPOINTS")
			if c.Bool("mirror") {
				standings, err := a.LeagueService.MirrorStandings(c.Context)
				if err != nil {
					return err
				}
				for _, st := range standings {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%.0f\t%d\n", st.Position, st.Name, st.Played, st.AverageScore, st.TotalPoints)
				}
				return tw.Flush()
			}

			for i, st := range a.LeagueService.Standings(c.Bool("secret")) {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%.0f\t%d\n", i+1, st.Name, st.Played, st.AverageScore, st.TotalPoints)
			}
			return tw.Flush()
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a standings workbook and/or a score history chart",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Usage: "workbook output path"},
			&cli.StringFlag{Name: "chart", Usage: "PNG chart output path"},
			&cli.BoolFlag{Name: "secret", Usage: "include secret games"},
		},
		Action: func(c *cli.Context) error {
			if c.String("xlsx") == "" && c.String("chart") == "" {
				return errors.New("nothing to export: pass --xlsx and/or --chart")
			}

			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if path := c.String("xlsx"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := a.LeagueService.ExportWorkbook(f, c.Bool("secret")); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			}

			if path := c.String("chart"); path != "" {
				data, err := a.LeagueService.ScoreHistoryChart(c.Bool("secret"), leagueservice.DefaultChartPalette)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			}
			return nil
		},
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "copy the league document into the reporting mirror",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "drop", Usage: "remove the league from the mirror instead"},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Cfg.Postgres.DSN == "" {
				return leagueservice.ErrNoMirror
			}
			if c.Bool("drop") {
				return a.LeagueService.DropMirror(c.Context)
			}
			return a.LeagueService.SyncMirror(c.Context)
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "poll the game server and commit finished games as they appear",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "interval", Usage: "poll interval, overriding server.poll_interval"},
		},
		Action: func(c *cli.Context) error {
			a, err := setup(c, true)
			if err != nil {
				return err
			}
			defer a.Close()

			conn, err := a.Connector(c.Context)
			if err != nil {
				return err
			}
			defer conn.Close()

			interval := a.Cfg.Server.PollInterval
			if d := c.Duration("interval"); d > 0 {
				interval = d
			}
			// The watcher saves after each poll that commits games.
			a.LeagueService.AutoSave = true
			watcher := leagueservice.NewWatcher(a.LeagueService, conn, interval, a.Logger.With("module", "watcher"), a.Metrics)

			g, ctx := errgroup.WithContext(c.Context)
			g.Go(func() error { return a.StartMetricsServer(ctx) })
			g.Go(func() error { return watcher.Run(ctx) })
			return g.Wait()
		},
	}
}
