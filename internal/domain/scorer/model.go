package scorer

import "fmt"

// Scorer is a per-group aggregate of one player's goals and games for
// a team. Like standings, the per-group set is replaced wholesale on
// every refresh.
type Scorer struct {
	GroupID    int64
	PlayerName string
	TeamID     int64
	Goals      int
	Games      int

	// TeamName is populated on reads that join the teams table.
	TeamName string
}

func (s Scorer) Validate() error {
	if s.PlayerName == "" {
		return fmt.Errorf("scorer player name is required")
	}
	if s.TeamID <= 0 {
		return fmt.Errorf("scorer team id is required")
	}
	if s.Goals < 0 || s.Games < 0 {
		return fmt.Errorf("scorer totals must not be negative")
	}

	return nil
}
