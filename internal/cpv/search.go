package cpv

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match - найденный код с описанием.
type Match struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Search ищет коды по тексту описания без учёта регистра и диакритики.
// Числовой запрос сравнивается с началом кода. limit <= 0 снимает ограничение.
func (d *Dictionary) Search(text string, limit int) []Match {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Match{}
	}

	digits, numeric := codePrefix(text)
	needle := fold(text)

	matches := make([]Match, 0)
	for _, code := range d.codes {
		var ok bool
		if numeric {
			ok = strings.HasPrefix(code, digits)
		} else {
			ok = strings.Contains(d.folded[code], needle)
		}
		if !ok {
			continue
		}
		matches = append(matches, Match{Code: code, Description: d.labels[code]})
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches
}

// codePrefix извлекает цифры из запроса вида "45 23" или "4523-".
func codePrefix(text string) (string, bool) {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.':
		default:
			return "", false
		}
	}
	return b.String(), b.Len() > 0
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
