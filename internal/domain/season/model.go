package season

import "fmt"

// Season is one competition year, e.g. "2025-2026". Only one season is
// flagged current at a time; projections read exclusively from it.
type Season struct {
	ID        int64
	Name      string
	StartYear int
	EndYear   int
	IsCurrent bool
}

func (s Season) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if s.StartYear <= 0 || s.EndYear <= 0 {
		return fmt.Errorf("season years are required")
	}
	if s.EndYear < s.StartYear {
		return fmt.Errorf("season end year precedes start year")
	}

	return nil
}
