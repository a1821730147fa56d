// Package match provides identifier normalization and Levenshtein similarity
// for resolving loosely spelled property names.
//
// Key functions:
//   - NormalizeIdent: folds an identifier for fuzzy comparison
//   - ExportedIdent: turns "year_of_birth" or "yearOfBirth" into "YearOfBirth"
//   - Levenshtein: computes edit distance between strings
//   - Closest: picks the most similar candidate name for "did you mean" hints
package match
