package testutils

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// laserforceSchema is the subset of the Laserforce game database the connector reads.
const laserforceSchema = `
CREATE TABLE IF NOT EXISTS centre (ref integer PRIMARY KEY, region integer NOT NULL, site integer NOT NULL);
CREATE TABLE IF NOT EXISTS member (ref integer PRIMARY KEY, centre integer, id integer NOT NULL, codename text);
CREATE TABLE IF NOT EXISTS unit (ref integer PRIMARY KEY, "desc" text, unittype integer NOT NULL DEFAULT 0);
CREATE TABLE IF NOT EXISTS missiongroup (ref integer PRIMARY KEY, "desc" text);
CREATE TABLE IF NOT EXISTS missiontype (ref integer PRIMARY KEY, desc0 text, desc1 text, alignment integer);
CREATE TABLE IF NOT EXISTS missionalignmentteam (alignment integer NOT NULL, seq integer NOT NULL, colourteam integer NOT NULL);
CREATE TABLE IF NOT EXISTS mission (ref integer PRIMARY KEY, start timestamp NOT NULL, "group" integer, "type" integer);
CREATE TABLE IF NOT EXISTS missionplayer (ref integer PRIMARY KEY, mission integer NOT NULL, member integer, unit integer, score integer NOT NULL, team integer);
`

// LaserforcePlayer is one seeded mission player. A zero Member leaves the player unregistered.
type LaserforcePlayer struct {
	Ref      int
	Member   int
	Codename string
	Unit     int
	Score    int
	Team     int
}

// LaserforceMission is one seeded mission.
type LaserforceMission struct {
	Ref     int
	Start   time.Time
	Players []LaserforcePlayer
}

// SeedLaserforce creates the Laserforce schema with one centre, two teams
// (red and blue) and the given missions. Unit n is named "Pack n".
func SeedLaserforce(ctx context.Context, db *bun.DB, missions ...LaserforceMission) error {
	if _, err := db.ExecContext(ctx, laserforceSchema); err != nil {
		return fmt.Errorf("failed to create laserforce schema: %w", err)
	}

	base := []string{
		`INSERT INTO centre (ref, region, site) VALUES (1, 7, 12)`,
		`INSERT INTO missiongroup (ref, "desc") VALUES (1, 'Standard')`,
		`INSERT INTO missiontype (ref, desc0, desc1, alignment) VALUES (1, 'Team Game', 'League Team Game', 3)`,
		`INSERT INTO missionalignmentteam (alignment, seq, colourteam) VALUES (3, 1, 0), (3, 2, 1)`,
	}
	for _, q := range base {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to seed laserforce: %w", err)
		}
	}

	units := map[int]bool{}
	members := map[int]bool{}
	for _, m := range missions {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO mission (ref, start, "group", "type") VALUES (?, ?, 1, 1)`,
			m.Ref, m.Start.Format("2006-01-02 15:04:05")); err != nil {
			return fmt.Errorf("failed to seed mission %d: %w", m.Ref, err)
		}

		for _, p := range m.Players {
			if !units[p.Unit] {
				units[p.Unit] = true
				if _, err := db.ExecContext(ctx,
					`INSERT INTO unit (ref, "desc", unittype) VALUES (?, ?, 0)`,
					p.Unit, fmt.Sprintf("Pack %d", p.Unit)); err != nil {
					return fmt.Errorf("failed to seed unit %d: %w", p.Unit, err)
				}
			}

			var member any
			if p.Member != 0 {
				member = p.Member
				if !members[p.Member] {
					members[p.Member] = true
					if _, err := db.ExecContext(ctx,
						`INSERT INTO member (ref, centre, id, codename) VALUES (?, 1, ?, ?)`,
						p.Member, p.Member*10, p.Codename); err != nil {
						return fmt.Errorf("failed to seed member %d: %w", p.Member, err)
					}
				}
			}

			if _, err := db.ExecContext(ctx,
				`INSERT INTO missionplayer (ref, mission, member, unit, score, team) VALUES (?, ?, ?, ?, ?, ?)`,
				p.Ref, m.Ref, member, p.Unit, p.Score, p.Team); err != nil {
				return fmt.Errorf("failed to seed mission player %d: %w", p.Ref, err)
			}
		}
	}
	return nil
}

// DropLaserforce removes the Laserforce schema.
func DropLaserforce(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx,
		`DROP TABLE IF EXISTS missionplayer, mission, missionalignmentteam, missiontype, missiongroup, unit, member, centre`)
	return err
}
