package leaguemigrations

import (
	"context"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
	"github.com/uptrace/bun"
)

var mirrorModels = []any{
	(*leaguedb.League)(nil),
	(*leaguedb.Team)(nil),
	(*leaguedb.Player)(nil),
	(*leaguedb.Game)(nil),
	(*leaguedb.GameTeam)(nil),
	(*leaguedb.GamePlayer)(nil),
	(*leaguedb.Standing)(nil),
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating league mirror tables...")

		for _, model := range mirrorModels {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("League mirror tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping league mirror tables...")

		for i := len(mirrorModels) - 1; i >= 0; i-- {
			if _, err := db.NewDropTable().Model(mirrorModels[i]).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("League mirror tables dropped successfully!")
		return nil
	})
}
