package match

import "context"

// Repository describes match and goal persistence needs from use cases.
type Repository interface {
	// InsertIfAbsent inserts the match unless a row with the same
	// natural key exists. The bool result reports whether a row was
	// inserted; on conflict the existing row is left untouched.
	InsertIfAbsent(ctx context.Context, m Match) (int64, bool, error)
	// ApplyScore sets the score of a still-unscored match located by
	// its natural key. It reports whether a row was updated; a match
	// that already carries a score is never overwritten.
	ApplyScore(ctx context.Context, groupID int64, jornada string, homeTeamID, awayTeamID int64, homeScore, awayScore int) (bool, error)
	// GetByID returns the match by id; the bool result reports whether
	// a row exists.
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	ListByGroup(ctx context.Context, groupID int64) ([]Match, error)
	ListByGroupJornada(ctx context.Context, groupID int64, jornada string) ([]Match, error)
	// ListWithGoals returns every scored match that has at least one
	// goal row, ordered by id, with team names resolved.
	ListWithGoals(ctx context.Context) ([]Match, error)
	CountByGroup(ctx context.Context, groupID int64) (int, error)

	CountGoals(ctx context.Context, matchID int64) (int, error)
	InsertGoals(ctx context.Context, matchID int64, goals []Goal) error
	// ListGoals returns a match's goals ordered by minute, then id.
	ListGoals(ctx context.Context, matchID int64) ([]Goal, error)
}
