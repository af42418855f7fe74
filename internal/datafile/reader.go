package datafile

import (
	"fmt"
	"regexp"
)

// ExtractConst returns the raw JSON value assigned to a const
// declaration inside a published data file. The value is delimited by
// balanced brackets with string contents skipped, so trailing
// declarations in the same file do not confuse the scan.
func ExtractConst(src []byte, name string) ([]byte, error) {
	pattern, err := regexp.Compile(`const\s+` + regexp.QuoteMeta(name) + `\s*=\s*`)
	if err != nil {
		return nil, fmt.Errorf("compile declaration pattern: %w", err)
	}
	loc := pattern.FindIndex(src)
	if loc == nil {
		return nil, fmt.Errorf("declaration %s not found", name)
	}

	start := loc[1]
	if start >= len(src) {
		return nil, fmt.Errorf("declaration %s has no value", name)
	}

	opener := src[start]
	var closer byte
	switch opener {
	case '[':
		closer = ']'
	case '{':
		closer = '}'
	default:
		return nil, fmt.Errorf("declaration %s does not open a bracket", name)
	}

	depth := 0
	for i := start; i < len(src); i++ {
		switch src[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return src[start : i+1], nil
			}
		case '"':
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
		}
	}

	return nil, fmt.Errorf("declaration %s is unterminated", name)
}
