package datafile

import (
	"regexp"
	"time"
)

var versionPattern = regexp.MustCompile(`\?v=\d{8}`)

// BumpVersion rewrites every ?v=YYYYMMDD asset reference in the app
// shell to the given date, forcing clients past their cached copies on
// the next load. The bool result reports whether anything changed.
func BumpVersion(shell []byte, at time.Time) ([]byte, bool) {
	replacement := []byte("?v=" + at.Format("20060102"))
	out := versionPattern.ReplaceAll(shell, replacement)
	if string(out) == string(shell) {
		return shell, false
	}
	return out, true
}
