package constants

import (
	"strings"
)

// SourceType identifies where an import record originated.
type SourceType string

const (
	SourceCrowdImport SourceType = "crowd-import"
	SourceManualEntry SourceType = "manual-entry"
	SourceAPIImport   SourceType = "api-import"
	SourceOSMImport   SourceType = "osm-import"
)

var allSourceTypes = []SourceType{
	SourceCrowdImport,
	SourceManualEntry,
	SourceAPIImport,
	SourceOSMImport,
}

// SourceTypes holds the allowed source values for the source field in submissions.
var SourceTypes = []string{
	string(SourceCrowdImport),
	string(SourceManualEntry),
	string(SourceAPIImport),
	string(SourceOSMImport),
}

func AsStringSlice() []string {
	result := make([]string, len(allSourceTypes))
	for i, src := range allSourceTypes {
		result[i] = string(src)
	}
	return result
}

// CanonicalizeSource maps free-form source labels onto a known SourceType.
func CanonicalizeSource(input string) (SourceType, bool) {
	if input == "" {
		return SourceManualEntry, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]SourceType{
		"crowd":         SourceCrowdImport,
		"crowdsourced":  SourceCrowdImport,
		"community":     SourceCrowdImport,
		"manual":        SourceManualEntry,
		"curator":       SourceManualEntry,
		"api":           SourceAPIImport,
		"partner-api":   SourceAPIImport,
		"osm":           SourceOSMImport,
		"openstreetmap": SourceOSMImport,
	}

	if src, ok := synonyms[normalized]; ok {
		return src, true
	}

	// check if it matches any source string
	for _, src := range allSourceTypes {
		if normalized == strings.ToLower(string(src)) {
			return src, true
		}
	}

	return SourceManualEntry, false
}
