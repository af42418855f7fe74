package group

import "fmt"

// Group is one competition sub-division: a standings table plus a
// fixture list inside a (season, category). The code is the short app
// identifier ("A1", "PG2", "LZ1").
type Group struct {
	ID             int64
	SeasonID       int64
	CategoryID     int64
	Code           string
	Name           string
	FullName       string
	Phase          string
	Island         string
	URL            string
	CurrentJornada string
}

func (g Group) Validate() error {
	if g.SeasonID <= 0 {
		return fmt.Errorf("group season id is required")
	}
	if g.CategoryID <= 0 {
		return fmt.Errorf("group category id is required")
	}
	if g.Code == "" {
		return fmt.Errorf("group code is required")
	}

	return nil
}

// Patch carries optional display metadata for an upsert. Nil fields are
// left untouched on an existing row; they never overwrite with empty.
type Patch struct {
	Name           *string
	FullName       *string
	Phase          *string
	Island         *string
	URL            *string
	CurrentJornada *string
}
