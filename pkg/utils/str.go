package utils

import (
	"regexp"
	"strings"
)

// FirstNonEmpty returns the first argument that is not blank
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// SplitByMultipleDelimiters splits s on any of the delimiters, trims each part
// and drops empty parts
func SplitByMultipleDelimiters(s string, delimiters ...string) []string {
	if len(delimiters) == 0 {
		delimiters = []string{","}
	}
	re := regexp.MustCompile("[" + regexp.QuoteMeta(strings.Join(delimiters, "")) + "]")

	var out []string
	for _, part := range re.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
