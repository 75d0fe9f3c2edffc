// Package diagnostic collects structured errors, warnings and infos produced while
// validating mapping documents.
//
// Each diagnostic carries a stable code (e.g. "unknown_transform"), the mapping it
// belongs to, the destination field path, and optional suggestions.
package diagnostic
