package standing

import "fmt"

// Row is one team's aggregate record within a group. The set of rows
// for a group is a snapshot: every refresh replaces it wholesale.
type Row struct {
	GroupID      int64
	TeamID       int64
	Position     int
	Points       int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int

	// TeamName is populated on reads that join the teams table.
	TeamName string
}

func (r Row) Validate() error {
	if r.TeamID <= 0 {
		return fmt.Errorf("standing team id is required")
	}
	if r.Position <= 0 {
		return fmt.Errorf("standing position must be positive")
	}

	return nil
}
