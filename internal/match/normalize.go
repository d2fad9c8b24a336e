package match

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/erazemk/najdeno/internal/model"
)

// minKeywordLen is the shortest description token kept as a keyword.
const minKeywordLen = 3

// epoch replaces missing timestamps.
var epoch = time.Unix(0, 0).UTC()

// Normalized is the comparison-ready view of an item. It is computed once per
// item and must not be modified afterwards.
type Normalized struct {
	Item     model.Item
	Category string
	Color    string
	Location string
	Building string
	Time     time.Time
	Keywords map[string]struct{}
}

// Normalize derives the comparison view of an item. It never fails; missing
// or malformed fields become empty values.
func Normalize(item model.Item) Normalized {
	fold := newFolder()

	n := Normalized{
		Item:     item,
		Category: fold(item.Category),
		Color:    fold(item.Color),
		Location: fold(item.Location),
		Time:     item.CreatedAt,
	}
	if n.Time.IsZero() {
		n.Time = epoch
	}
	n.Building = buildingPattern.FindString(n.Location)
	n.Keywords = keywords(fold(item.Description))
	return n
}

// newFolder returns a function that trims, composes and lower-cases text.
// A cases.Caser is stateful, so each Normalize call gets its own.
func newFolder() func(string) string {
	lower := cases.Lower(language.Und)
	return func(s string) string {
		return lower.String(norm.NFC.String(strings.TrimSpace(s)))
	}
}

// keywords splits folded text on anything that is not a letter or digit and
// keeps tokens of at least minKeywordLen runes that are not stop words.
func keywords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	for _, w := range words {
		if utf8.RuneCountInString(w) < minKeywordLen {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
