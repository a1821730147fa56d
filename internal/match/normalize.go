package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeIdent normalizes an identifier for fuzzy matching: CamelCase is
// tokenized, everything is lower-cased and separators (_, -, space) dropped.
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(tokenizeCamelCase(s), ""))
}

// ExportedIdent converts a property name as written in a binding path into
// the exported Go identifier it addresses.
// Examples:
//   - "name" -> "Name"
//   - "year_of_birth" -> "YearOfBirth"
//   - "streetCount" -> "StreetCount"
//   - "address1" -> "Address1"
//
// Tokens are only upper-cased at their first rune, so "ID" stays "ID".
func ExportedIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, token := range tokenizeCamelCase(s) {
		r, size := utf8.DecodeRuneInString(token)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(token[size:])
	}

	return sb.String()
}

// TokenizeIdent splits an identifier into normalized lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits a CamelCase, camelCase or snake_case string into
// tokens, dropping separators.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "year_of_birth" -> ["year", "of", "birth"]
//   - "XMLParser" -> ["XML", "Parser"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// "orderID" splits before 'I'
	if !unicode.IsUpper(prev) {
		return true
	}

	// "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
