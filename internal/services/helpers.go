package services

import (
	"strings"

	"gorm.io/datatypes"
)

// jsonStrings trims entries and drops blanks.
func jsonStrings(values []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
