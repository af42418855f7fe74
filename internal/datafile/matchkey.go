package datafile

import "fmt"

// MatchKey identifies a scored match in the match-detail file. Lookups
// and deduplication use the struct; the string form exists only for
// the published file's map keys.
type MatchKey struct {
	Home      string
	Away      string
	HomeScore int
	AwayScore int
}

// String renders the published key form "home|away|hs-as".
func (k MatchKey) String() string {
	return fmt.Sprintf("%s|%s|%d-%d", k.Home, k.Away, k.HomeScore, k.AwayScore)
}
