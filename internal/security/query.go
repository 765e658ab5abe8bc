package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrQueryNotReadOnly indicates a free-form query was rejected by the
// read-only gate before reaching the database.
var ErrQueryNotReadOnly = errors.New("query is not read-only")

// mutatingKeywords are rejected anywhere in a free-form query. This is a
// syntactic allow-list, not a SQL parser: values are always bound as
// parameters elsewhere, the gate only guards the run_query entry point.
var mutatingKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER",
	"CREATE", "TRUNCATE", "MERGE", "GRANT", "REVOKE",
	"EXEC", "EXECUTE",
}

// ValidateReadOnlyQuery rejects any query that is not a plain SELECT or that
// contains a mutating keyword as a word token. It never touches a database.
func ValidateReadOnlyQuery(query string) error {
	tokens := tokenizeQuery(query)
	if len(tokens) == 0 {
		return fmt.Errorf("%w: empty query", ErrQueryNotReadOnly)
	}

	if tokens[0] != "SELECT" {
		return fmt.Errorf("%w: only SELECT statements are allowed", ErrQueryNotReadOnly)
	}

	for _, tok := range tokens {
		for _, kw := range mutatingKeywords {
			if tok == kw {
				return fmt.Errorf("%w: keyword %s is not allowed", ErrQueryNotReadOnly, kw)
			}
		}
	}

	return nil
}

// tokenizeQuery splits a query into uppercase word tokens. Token-wise
// matching avoids rejecting identifiers that merely contain a keyword
// (e.g. a column named created_at).
func tokenizeQuery(query string) []string {
	upper := strings.ToUpper(query)
	return strings.FieldsFunc(upper, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
