package anbima

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// boilerplate tokens from the provider headers, replaced by a space (applied in order).
var boilerplate = []string{"<BR>", "1.000", "R$ mil", " de ", " no ", "d.u."}

// punctuation marks deleted from headers.
var punctuation = []string{"%", "(", ")", "*", "."}

// ToASCII transliterates s to ASCII: diacritics are stripped, compatibility characters
// such as º and ª fold to their letters and anything left outside ASCII is dropped.
func ToASCII(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CleanName turns a provider header into a canonical column name.
// It is idempotent: CleanName(CleanName(s)) == CleanName(s).
//
//	"Data de Referência" -> "data_referencia"
//	" D.U. (%) "         -> "du"
func CleanName(s string) string {
	s = ToASCII(s)
	for _, token := range boilerplate {
		s = strings.ReplaceAll(s, token, " ")
	}
	for _, p := range punctuation {
		s = strings.ReplaceAll(s, p, "")
	}
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}

// CleanNames applies CleanName to every header.
func CleanNames(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = CleanName(h)
	}
	return out
}
