// Package match scores how similar two names are and ranks "did you mean"
// suggestions for unknown transform and mapping names.
//
// Key functions:
//   - NormalizeIdent: folds camelCase, snake_case and kebab-case names to one form
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match
