package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDepthExceeded is returned when nested or array rules recurse deeper than the
// configured limit, which usually means a specification refers to itself.
var ErrDepthExceeded = errors.New("mapping depth limit exceeded")

// DepthError reports where the depth limit was hit.
type DepthError struct {
	// Path lists the destination field names from the root spec down to the failing rule.
	Path []string
	// Limit is the configured maximum depth.
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s at %q (limit %d)", ErrDepthExceeded, strings.Join(e.Path, "."), e.Limit)
}

func (e *DepthError) Unwrap() error {
	return ErrDepthExceeded
}
