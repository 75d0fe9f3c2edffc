package resolve

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Mode -output=mode_string.go

// Mode selects how string rules are resolved against a source value.
type Mode int

const (
	// PathTraversal resolves a dotted path from the root of the source value.
	PathTraversal Mode = iota
	// DeepKeySearch looks for a property with the exact name anywhere in the source graph.
	DeepKeySearch

	// ModeTotal is a constant that represents the total number of modes defined
	ModeTotal = int(iota)
)

// ParseMode parses the textual form of a Mode: "path" or "deep".
// The stringer names ("PathTraversal", "DeepKeySearch") are accepted too.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "path", "pathtraversal":
		return PathTraversal, nil
	case "deep", "deepkeysearch":
		return DeepKeySearch, nil
	default:
		return PathTraversal, fmt.Errorf("unknown resolution mode %q (expected 'path' or 'deep')", s)
	}
}
