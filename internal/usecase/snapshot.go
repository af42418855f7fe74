package usecase

// Snapshot is one scraped pass over a category: its groups plus any
// shield images discovered along the way. It is the unit the
// reconciliation path applies against the store.
type Snapshot struct {
	Category string          `validate:"required"`
	Groups   []SnapshotGroup `validate:"dive"`
	Shields  map[string]string
}

// SnapshotGroup carries everything scraped for one group. Empty
// display fields mean "unknown, leave stored value untouched".
type SnapshotGroup struct {
	Code           string `validate:"required"`
	Name           string
	FullName       string
	Phase          string
	Island         string
	URL            string
	CurrentJornada string

	Standings []SnapshotStanding `validate:"dive"`
	Matches   []SnapshotMatch    `validate:"dive"`
	Scorers   []SnapshotScorer   `validate:"dive"`
}

type SnapshotStanding struct {
	Position     int    `validate:"gt=0"`
	Team         string `validate:"required"`
	Points       int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
}

type SnapshotMatch struct {
	Jornada   string `validate:"required"`
	Date      string
	Time      string
	Home      string `validate:"required"`
	Away      string `validate:"required"`
	HomeScore *int
	AwayScore *int
	Venue     string

	Goals []SnapshotGoal `validate:"dive"`
}

// Scored reports whether both scores are present.
func (m SnapshotMatch) Scored() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

type SnapshotGoal struct {
	Minute       int    `validate:"gte=0"`
	Player       string
	RunningScore string
	Side         string `validate:"oneof=home away"`
	Type         string `validate:"oneof=regular penalty own-goal"`
}

type SnapshotScorer struct {
	Player string `validate:"required"`
	Team   string `validate:"required"`
	Goals  int    `validate:"gte=0"`
	Games  int    `validate:"gte=0"`
}
