package team

import "fmt"

// Team is a club identified globally by its display name. Teams are
// shared across seasons and groups; there is never a per-season copy.
type Team struct {
	ID             int64
	Name           string
	ShieldFilename string
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
