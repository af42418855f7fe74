// Package datafile is the serialization boundary for the published
// data files. Rows live as named structs everywhere else in the code
// and collapse to their positional array form only here.
package datafile

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// StandingRow serializes as
// [pos, team, pts, played, won, drawn, lost, gf, gc, gd].
type StandingRow struct {
	Position     int
	Team         string
	Points       int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
}

func (r StandingRow) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([]any{
		r.Position, r.Team, r.Points, r.Played, r.Won, r.Drawn, r.Lost,
		r.GoalsFor, r.GoalsAgainst, r.GoalDiff,
	})
}

// MatchRow serializes as
// [date, time, home, away, homeScore|null, awayScore|null, venue|null].
type MatchRow struct {
	Date      string
	Time      string
	Home      string
	Away      string
	HomeScore *int
	AwayScore *int
	Venue     string
}

func (r MatchRow) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([]any{
		r.Date, r.Time, r.Home, r.Away,
		intOrNull(r.HomeScore), intOrNull(r.AwayScore), stringOrNull(r.Venue),
	})
}

// HistoryRow serializes as [date, home, away, homeScore, awayScore].
type HistoryRow struct {
	Date      string
	Home      string
	Away      string
	HomeScore *int
	AwayScore *int
}

func (r HistoryRow) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([]any{
		r.Date, r.Home, r.Away, intOrNull(r.HomeScore), intOrNull(r.AwayScore),
	})
}

// GoalRow serializes as [minute, scorer, runningScore, side, type].
type GoalRow struct {
	Minute       int
	Player       string
	RunningScore string
	Side         string
	Type         string
}

func (r GoalRow) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([]any{r.Minute, r.Player, r.RunningScore, r.Side, r.Type})
}

// ScorerRow serializes as [player, team, goals, games].
type ScorerRow struct {
	Player string
	Team   string
	Goals  int
	Games  int
}

func (r ScorerRow) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([]any{r.Player, r.Team, r.Goals, r.Games})
}

func (r *StandingRow) UnmarshalJSON(data []byte) error {
	arr, err := decodeTuple(data, 10)
	if err != nil {
		return fmt.Errorf("standing row: %w", err)
	}
	r.Position = asInt(arr[0])
	r.Team = asString(arr[1])
	r.Points = asInt(arr[2])
	r.Played = asInt(arr[3])
	r.Won = asInt(arr[4])
	r.Drawn = asInt(arr[5])
	r.Lost = asInt(arr[6])
	r.GoalsFor = asInt(arr[7])
	r.GoalsAgainst = asInt(arr[8])
	r.GoalDiff = asInt(arr[9])
	return nil
}

func (r *MatchRow) UnmarshalJSON(data []byte) error {
	arr, err := decodeTuple(data, 7)
	if err != nil {
		return fmt.Errorf("match row: %w", err)
	}
	r.Date = asString(arr[0])
	r.Time = asString(arr[1])
	r.Home = asString(arr[2])
	r.Away = asString(arr[3])
	r.HomeScore = asIntPtr(arr[4])
	r.AwayScore = asIntPtr(arr[5])
	r.Venue = asString(arr[6])
	return nil
}

func (r *HistoryRow) UnmarshalJSON(data []byte) error {
	arr, err := decodeTuple(data, 5)
	if err != nil {
		return fmt.Errorf("history row: %w", err)
	}
	r.Date = asString(arr[0])
	r.Home = asString(arr[1])
	r.Away = asString(arr[2])
	r.HomeScore = asIntPtr(arr[3])
	r.AwayScore = asIntPtr(arr[4])
	return nil
}

func (r *GoalRow) UnmarshalJSON(data []byte) error {
	arr, err := decodeTuple(data, 5)
	if err != nil {
		return fmt.Errorf("goal row: %w", err)
	}
	r.Minute = asInt(arr[0])
	r.Player = asString(arr[1])
	r.RunningScore = asString(arr[2])
	r.Side = asString(arr[3])
	r.Type = asString(arr[4])
	return nil
}

func (r *ScorerRow) UnmarshalJSON(data []byte) error {
	arr, err := decodeTuple(data, 4)
	if err != nil {
		return fmt.Errorf("scorer row: %w", err)
	}
	r.Player = asString(arr[0])
	r.Team = asString(arr[1])
	r.Goals = asInt(arr[2])
	r.Games = asInt(arr[3])
	return nil
}

func decodeTuple(data []byte, want int) ([]any, error) {
	var arr []any
	if err := sonic.Unmarshal(data, &arr); err != nil {
		return nil, err
	}
	if len(arr) != want {
		return nil, fmt.Errorf("expected %d elements, got %d", want, len(arr))
	}
	return arr, nil
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asIntPtr(v any) *int {
	if v == nil {
		return nil
	}
	n := asInt(v)
	return &n
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func intOrNull(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNull(v string) any {
	if v == "" {
		return nil
	}
	return v
}
