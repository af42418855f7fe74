package usecase

import (
	"regexp"
	"strings"

	"github.com/futbolcanario/futbolbase/internal/domain/category"
)

var (
	prebenjGroupPattern  = regexp.MustCompile(`G-?(\d+)`)
	lanzaroteGroupNumber = regexp.MustCompile(`GRUPO\s*(\d+)`)
	benjaminWord         = regexp.MustCompile(`\bBENJAMIN\b\s*`)
)

// GoleadoresGroupName converts a group's full name into the display
// name the scorers file uses. The federation publishes scorer tables
// under slightly different headings than the standings pages, so the
// mapping is rule-based per island and phase:
//
//	"SEGUNDA FASE BENJAMIN A-G1"          -> "BENJAMIN SEGUNDA FASE A-G1"
//	"Benjamin Lanzarote Grupo 1"          -> "BENJAMIN PRIMERA LANZAROTE G1"
//	"Benjamin Fuerteventura Liga Oro"     -> "BENJAMIN FUERTEVENTURA LIGA ORO"
//	"PREBENJAMIN PRIMERA GRAN CANARIA G-1" -> "PREBENJAMIN GC GRUPO 1"
func GoleadoresGroupName(fullName, categoryName string) string {
	upper := strings.ToUpper(fullName)

	if categoryName == category.Prebenjamin {
		if m := prebenjGroupPattern.FindStringSubmatch(upper); m != nil {
			return "PREBENJAMIN GC GRUPO " + m[1]
		}
		return upper
	}

	if strings.Contains(upper, "FUERTEVENTURA") {
		return "BENJAMIN " + stripBenjamin(upper)
	}

	if strings.Contains(upper, "LANZAROTE") {
		if m := lanzaroteGroupNumber.FindStringSubmatch(upper); m != nil {
			return "BENJAMIN PRIMERA LANZAROTE G" + m[1]
		}
		return "BENJAMIN " + stripBenjamin(upper)
	}

	return "BENJAMIN " + stripBenjamin(upper)
}

func stripBenjamin(upper string) string {
	return strings.TrimSpace(benjaminWord.ReplaceAllString(upper, ""))
}

var (
	lanzaroteCodePattern = regexp.MustCompile(`LANZAROTE\s+G(\d+)`)
	segundaFasePattern   = regexp.MustCompile(`FASE\s+([A-C])-G(\d+)`)
	prebenjCodePattern   = regexp.MustCompile(`PREBENJAMIN\s+GC\s+GRUPO\s+(\d+)`)
)

// GroupCodeFromGoleadores inverts GoleadoresGroupName: given a scorers
// display name it recovers the short group code, e.g.
// "BENJAMIN SEGUNDA FASE A-G1" -> "A1" and
// "PREBENJAMIN GC GRUPO 2" -> "PG2".
func GroupCodeFromGoleadores(displayName string) (string, bool) {
	upper := strings.ToUpper(displayName)

	if strings.Contains(upper, "FUERTEVENTURA") {
		switch {
		case strings.Contains(upper, "ORO"):
			return "FO", true
		case strings.Contains(upper, "PLATA"):
			return "FP", true
		case strings.Contains(upper, "BRONCE"):
			return "FB", true
		}
	}

	if m := lanzaroteCodePattern.FindStringSubmatch(upper); m != nil {
		return "LZ" + m[1], true
	}
	if m := segundaFasePattern.FindStringSubmatch(upper); m != nil {
		return m[1] + m[2], true
	}
	if m := prebenjCodePattern.FindStringSubmatch(upper); m != nil {
		return "PG" + m[1], true
	}

	return "", false
}
