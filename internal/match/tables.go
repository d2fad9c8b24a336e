package match

import "regexp"

// colorGroups lists colors that count as a partial match for each other.
// A color may belong to more than one group.
var colorGroups = map[string][]string{
	"dark":   {"black", "dark blue", "dark brown", "navy", "dark gray", "dark grey"},
	"light":  {"white", "cream", "beige", "light gray", "light grey", "ivory", "off-white"},
	"blue":   {"blue", "navy", "cyan", "light blue", "sky blue"},
	"red":    {"red", "maroon", "burgundy", "crimson", "scarlet"},
	"green":  {"green", "lime", "olive", "forest green"},
	"yellow": {"yellow", "gold", "mustard"},
	"purple": {"purple", "violet", "lavender", "magenta"},
	"brown":  {"brown", "tan", "chocolate", "coffee"},
	"pink":   {"pink", "rose", "coral"},
	"orange": {"orange", "peach", "coral"},
}

// colorMembership maps each color to the set of groups it belongs to.
var colorMembership = func() map[string]map[string]struct{} {
	m := make(map[string]map[string]struct{})
	for group, colors := range colorGroups {
		for _, c := range colors {
			if m[c] == nil {
				m[c] = make(map[string]struct{})
			}
			m[c][group] = struct{}{}
		}
	}
	return m
}()

// stopWords are dropped from description keywords.
var stopWords = toSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "is", "was", "are", "were", "be", "been",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "can", "i", "you", "he", "she", "it",
	"we", "they", "this", "that", "these", "those", "my", "your", "his", "her",
)

// buildingPattern finds the first building or area token in a location.
var buildingPattern = regexp.MustCompile(`library|academic|hostel|cafeteria|sports|lab|block [a-d]`)

// commonAreas earn a partial location score when both locations mention one.
var commonAreas = []string{"library", "academic", "hostel", "cafeteria", "sports"}

func toSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
