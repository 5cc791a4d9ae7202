package scheme

import (
	"errors"
	"fmt"
)

// Scheme identifies a phone camera filename convention
type Scheme int

const (
	// Unknown means no convention could be established
	Unknown Scheme = iota
	// Huawei names files IMG_YYYYMMDD_hhmmss (also VID_ and PANO_)
	Huawei
	// Samsung names files YYYYMMDD_hhmmss
	Samsung
	// WinPhone names files WP_YYYYMMDD_hh_mm_ss_Pro
	WinPhone
)

// ErrMismatch is returned when tokens do not satisfy the scheme asked to format them
var ErrMismatch = errors.New("tokens do not match scheme")

// variant bundles what each known scheme owns: how many tokens it needs,
// how it validates them and how it renders the normalized name.
type variant struct {
	name      string
	minTokens int
	match     func(t Tokens) bool
	format    func(t Tokens, dirName string) string
}

var huaweiPrefixes = map[string]bool{"IMG": true, "VID": true, "PANO": true}

// variants is indexed by Scheme; Unknown has no strategy.
var variants = [...]variant{
	Unknown: {name: "Unknown"},
	Huawei: {
		name:      "Huawei",
		minTokens: 3,
		match: func(t Tokens) bool {
			return huaweiPrefixes[t[0]] && isDigits(t[1], 8) && isDigits(t[2], 6)
		},
		format: func(t Tokens, dirName string) string {
			return joinExtra(t[1]+"-"+t[2]+"-"+dirName, t.Extra(3))
		},
	},
	Samsung: {
		name:      "Samsung",
		minTokens: 2,
		match: func(t Tokens) bool {
			return isDigits(t[0], 8) && isDigits(t[1], 6)
		},
		format: func(t Tokens, dirName string) string {
			return joinExtra(t[0]+"-"+t[1]+"-"+dirName, t.Extra(2))
		},
	},
	WinPhone: {
		name:      "WinPhone",
		minTokens: 6,
		match: func(t Tokens) bool {
			return t[0] == "WP" &&
				isDigits(t[1], 8) &&
				isDigits(t[2], 2) &&
				isDigits(t[3], 2) &&
				isDigits(t[4], 2) &&
				t[5] == "Pro"
		},
		format: func(t Tokens, dirName string) string {
			return joinExtra(t[1]+"-"+t[2]+t[3]+t[4]+"-"+dirName+"-"+t[0], t.Extra(6))
		},
	},
}

func joinExtra(stem, extra string) string {
	if extra == "" {
		return stem
	}
	return stem + Delimiter + extra
}

// Known returns the recognized schemes in detection order
func Known() []Scheme {
	return []Scheme{Huawei, Samsung, WinPhone}
}

// MaxTokens is the largest fixed prefix any known scheme constrains
func MaxTokens() int {
	n := 0
	for _, s := range Known() {
		if m := s.MinTokens(); m > n {
			n = m
		}
	}
	return n
}

// IsKnown reports whether s is one of the recognized schemes
func (s Scheme) IsKnown() bool {
	return s > Unknown && int(s) < len(variants)
}

// String returns the display name of the scheme
func (s Scheme) String() string {
	if s < Unknown || int(s) >= len(variants) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return variants[s].name
}

// MarshalText renders the scheme by name in JSON and YAML output
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a scheme name as written by MarshalText
func (s *Scheme) UnmarshalText(text []byte) error {
	for i, v := range variants {
		if v.name == string(text) {
			*s = Scheme(i)
			return nil
		}
	}
	return fmt.Errorf("unknown scheme name %q", text)
}

// MinTokens returns the number of tokens the scheme constrains
func (s Scheme) MinTokens() int {
	if !s.IsKnown() {
		return 0
	}
	return variants[s].minTokens
}

// Match reports whether the tokens satisfy the scheme's predicate.
// Unknown never matches.
func (s Scheme) Match(t Tokens) bool {
	if !s.IsKnown() {
		return false
	}
	v := variants[s]
	return len(t) >= v.minTokens && v.match(t)
}

// Stem renders the normalized output stem for tokens that match the scheme
func (s Scheme) Stem(t Tokens, dirName string) (string, error) {
	if !s.Match(t) {
		return "", fmt.Errorf("%w: %s", ErrMismatch, s)
	}
	return variants[s].format(t, dirName), nil
}

// FileName renders the normalized output file name, appending ext unchanged
func (s Scheme) FileName(t Tokens, dirName, ext string) (string, error) {
	stem, err := s.Stem(t, dirName)
	if err != nil {
		return "", err
	}
	return stem + ext, nil
}

// DateToken returns the 8-digit date token of matching tokens
func (s Scheme) DateToken(t Tokens) (string, bool) {
	if !s.Match(t) {
		return "", false
	}
	if s == Samsung {
		return t[0], true
	}
	return t[1], true
}

// Classify returns the single scheme the tokens satisfy.
// Tokens satisfying no scheme, or more than one, classify as Unknown.
func Classify(t Tokens) Scheme {
	found := Unknown
	for _, s := range Known() {
		if !s.Match(t) {
			continue
		}
		if found != Unknown {
			return Unknown
		}
		found = s
	}
	return found
}
