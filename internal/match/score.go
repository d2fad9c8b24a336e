package match

import (
	"math"
	"strings"
)

// Sub-score ceilings.
const (
	maxCategory = 30
	maxColor    = 25
	maxLocation = 20
	maxTime     = 15
	maxKeywords = 10
)

// Breakdown holds the per-factor contributions to a match score.
type Breakdown struct {
	Category int     `json:"category"`
	Color    int     `json:"color"`
	Location int     `json:"location"`
	Time     int     `json:"time"`
	Keywords float64 `json:"keywords"`
}

// Total returns the rounded sum of all factors.
func (b Breakdown) Total() int {
	sum := float64(b.Category+b.Color+b.Location+b.Time) + b.Keywords
	return int(math.Round(sum))
}

// Score returns the 0-100 compatibility of a lost and a found item.
func Score(lost, found Normalized) int {
	return Explain(lost, found).Total()
}

// Explain returns the per-factor breakdown behind Score.
func Explain(lost, found Normalized) Breakdown {
	return Breakdown{
		Category: categoryScore(lost.Category, found.Category),
		Color:    colorScore(lost.Color, found.Color),
		Location: locationScore(lost, found),
		Time:     timeScore(lost, found),
		Keywords: keywordScore(lost.Keywords, found.Keywords),
	}
}

func categoryScore(a, b string) int {
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return maxCategory
	case strings.Contains(a, b) || strings.Contains(b, a):
		return 15
	}
	return 0
}

func colorScore(a, b string) int {
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return maxColor
	case sameColorGroup(a, b):
		return 15
	}
	return 0
}

func sameColorGroup(a, b string) bool {
	groupsB := colorMembership[b]
	for g := range colorMembership[a] {
		if _, ok := groupsB[g]; ok {
			return true
		}
	}
	return false
}

func locationScore(a, b Normalized) int {
	if a.Location == "" || b.Location == "" {
		return 0
	}
	if a.Location == b.Location {
		return maxLocation
	}
	if a.Building != "" && a.Building == b.Building {
		return 15
	}
	for _, area := range commonAreas {
		if strings.Contains(a.Location, area) && strings.Contains(b.Location, area) {
			return 10
		}
	}
	return 0
}

func timeScore(a, b Normalized) int {
	days := math.Abs(a.Time.Sub(b.Time).Hours()) / 24
	switch {
	case days <= 1:
		return maxTime
	case days <= 3:
		return 12
	case days <= 7:
		return 8
	case days <= 14:
		return 4
	}
	return 0
}

func keywordScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	common := 0
	for k := range small {
		if _, ok := large[k]; ok {
			common++
		}
	}

	return math.Min(float64(common)/float64(len(small))*maxKeywords, maxKeywords)
}
