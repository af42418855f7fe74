package match

import "fmt"

// Match is one fixture inside a group. Nil scores mean not yet played.
// The natural key is (group, jornada, home team, away team); a row is
// never duplicated and, once inserted, never overwritten by a blind
// re-insert.
type Match struct {
	ID         int64
	GroupID    int64
	Jornada    string
	Date       string
	Time       string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Venue      string

	// Team names are populated on reads that join the teams table.
	HomeTeam string
	AwayTeam string
}

func (m Match) Validate() error {
	if m.GroupID <= 0 {
		return fmt.Errorf("match group id is required")
	}
	if m.Jornada == "" {
		return fmt.Errorf("match jornada is required")
	}
	if m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
		return fmt.Errorf("match team ids are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match teams must differ")
	}
	if (m.HomeScore == nil) != (m.AwayScore == nil) {
		return fmt.Errorf("match scores must be set together")
	}

	return nil
}

// Scored reports whether both scores are present.
func (m Match) Scored() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

const (
	SideHome = "home"
	SideAway = "away"

	TypeRegular = "regular"
	TypePenalty = "penalty"
	TypeOwnGoal = "own-goal"
)

// Goal is a single goal event attached to a scored match.
type Goal struct {
	ID           int64
	MatchID      int64
	Minute       int
	PlayerName   string
	RunningScore string
	Side         string
	Type         string
}

func (g Goal) Validate() error {
	if g.Side != SideHome && g.Side != SideAway {
		return fmt.Errorf("goal side %q is invalid", g.Side)
	}
	switch g.Type {
	case TypeRegular, TypePenalty, TypeOwnGoal:
	default:
		return fmt.Errorf("goal type %q is invalid", g.Type)
	}

	return nil
}
