package mapping

import (
	"errors"
	"fmt"
	"strings"

	"object-mapper/resolve"
)

// ParsePath splits a reference path into its segments.
// Supports: "field", "nested.field", "items.0.sku".
func ParsePath(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	segments := resolve.SplitPath(path)
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment at position %d", path, i)
		}

		if strings.TrimSpace(seg) != seg {
			return nil, fmt.Errorf("invalid path %q: segment %q has surrounding spaces", path, seg)
		}
	}

	return segments, nil
}
