package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var wsRe = regexp.MustCompile(`\s+`)
var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)
var multiDash = regexp.MustCompile(`\-+`)

// NormalizeName trims a display name, collapses inner whitespace and puts it
// in NFC form so that visually equal names compare equal.
func NormalizeName(s string) string {
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)
	return wsRe.ReplaceAllString(s, " ")
}

// NormalizePhone keeps the digits of a phone number, folding Arabic-Indic
// and full-width digits to ASCII. A leading "+" is preserved.
func NormalizePhone(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))

	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugify turns a free-form name into a lowercase, dash separated token
// safe for object paths.
func Slugify(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	t := norm.NFKD.String(name)
	b := make([]rune, 0, len(t))
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b = append(b, unicode.ToLower(r))
			continue
		}
		if unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' {
			b = append(b, '-')
			continue
		}
	}
	out := string(b)
	out = nonSlug.ReplaceAllString(out, "-")
	out = multiDash.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	return out
}

// TrimMax trims s to at most max runes.
func TrimMax(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
