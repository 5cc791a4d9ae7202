package scheme

import "strings"

// Delimiter separates tokens inside a camera filename stem
const Delimiter = "_"

// Tokens is the ordered sequence of delimiter-separated segments of a stem.
// The last element may still contain delimiters when the stem carries more
// segments than any scheme constrains.
type Tokens []string

// Split tokenizes a filename stem.
//
// At most MaxTokens()+1 tokens are produced: once the cap is reached the
// remaining tail of the stem is kept verbatim as the final token, so
// free-form user suffixes survive with their embedded delimiters.
func Split(stem string) Tokens {
	return Tokens(strings.SplitN(stem, Delimiter, MaxTokens()+1))
}

// Extra returns the tokens following the first n as a single free-form
// group joined back with the delimiter, or "" when there are none.
func (t Tokens) Extra(n int) string {
	if len(t) <= n {
		return ""
	}
	return strings.Join(t[n:], Delimiter)
}

// isDigits reports whether s has exactly n characters, all ASCII digits
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
