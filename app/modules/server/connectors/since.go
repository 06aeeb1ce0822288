package connectors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

// ErrInvalidSince is returned when a cut-off expression can't be understood.
var ErrInvalidSince = errors.New("invalid since expression")

var sinceLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

var sinceParser = newSinceParser()

func newSinceParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}

// ParseSince turns a cut-off such as "2h", "yesterday", "last friday at 6pm" or
// "2024-03-01" into an absolute time. Durations count back from now; dates are
// read in now's location.
func ParseSince(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidSince)
	}

	if d, err := time.ParseDuration(expr); err == nil {
		if d < 0 {
			d = -d
		}
		return now.Add(-d), nil
	}

	for _, layout := range sinceLayouts {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	r, err := sinceParser.Parse(strings.ToLower(expr), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidSince, expr, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSince, expr)
	}
	return r.Time, nil
}

// FilterSince keeps the games that started at or after t, preserving order.
func FilterSince(games []leaguedomain.ServerGame, t time.Time) []leaguedomain.ServerGame {
	out := make([]leaguedomain.ServerGame, 0, len(games))
	for _, g := range games {
		if !g.Time.Before(t) {
			out = append(out, g)
		}
	}
	return out
}
