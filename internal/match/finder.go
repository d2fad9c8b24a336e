package match

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/najdeno/internal/model"
)

// Default thresholds.
const (
	DefaultMinScore            = 40
	RecommendationMinScore     = 70
	DefaultRecommendationLimit = 5
)

// ItemLister lists active items of one kind.
type ItemLister interface {
	ListActive(ctx context.Context, kind model.Kind) ([]model.Item, error)
}

// Finder pairs lost and found reports.
type Finder struct {
	items ItemLister
	log   *slog.Logger
}

// NewFinder creates a Finder.
func NewFinder(items ItemLister, log *slog.Logger) *Finder {
	return &Finder{
		items: items,
		log:   log.With("service", "match"),
	}
}

// FindMatchesFor returns active items of the opposite kind scoring at least
// minScore against item, best first. Repository failures are logged and
// yield an empty list.
func (f *Finder) FindMatchesFor(ctx context.Context, item model.Item, minScore int) []model.MatchCandidate {
	if !item.Kind.Valid() {
		f.log.WarnContext(ctx, "cannot match item of unknown kind",
			slog.String("item_id", item.ID), slog.String("kind", string(item.Kind)))
		return []model.MatchCandidate{}
	}

	candidates, err := f.items.ListActive(ctx, item.Kind.Opposite())
	if err != nil {
		f.log.ErrorContext(ctx, "listing match candidates failed",
			slog.String("item_id", item.ID), slog.Any("error", model.Dependency("listing active items", err)))
		return []model.MatchCandidate{}
	}

	subject := Normalize(item)
	matches := []model.MatchCandidate{}
	for _, c := range candidates {
		other := Normalize(c)
		lost, found := subject, other
		if item.Kind == model.KindFound {
			lost, found = other, subject
		}
		if m, ok := candidate(lost, found, minScore); ok {
			matches = append(matches, m)
		}
	}

	rank(matches)
	return matches
}

// TopRecommendations scores every active lost item against every active
// found item and returns the best pairs scoring at least minScore. A limit
// of zero or less returns all of them.
func (f *Finder) TopRecommendations(ctx context.Context, minScore, limit int) []model.MatchCandidate {
	var lostItems, foundItems []model.Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lostItems, err = f.items.ListActive(gctx, model.KindLost)
		if err != nil {
			return fmt.Errorf("listing lost items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		foundItems, err = f.items.ListActive(gctx, model.KindFound)
		if err != nil {
			return fmt.Errorf("listing found items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		f.log.ErrorContext(ctx, "loading items for recommendations failed",
			slog.Any("error", model.Dependency("listing active items", err)))
		return []model.MatchCandidate{}
	}

	lost := normalizeAll(lostItems)
	found := normalizeAll(foundItems)

	matches := []model.MatchCandidate{}
	for _, l := range lost {
		for _, fd := range found {
			if m, ok := candidate(l, fd, minScore); ok {
				matches = append(matches, m)
			}
		}
	}

	rank(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	f.log.DebugContext(ctx, "computed recommendations",
		slog.Int("lost", len(lost)), slog.Int("found", len(found)), slog.Int("matches", len(matches)))
	return matches
}

func candidate(lost, found Normalized, minScore int) (model.MatchCandidate, bool) {
	score := Score(lost, found)
	if score < minScore {
		return model.MatchCandidate{}, false
	}
	return model.MatchCandidate{
		Lost:       lost.Item,
		Found:      found.Item,
		Score:      score,
		Confidence: model.ConfidenceFor(score),
	}, true
}

func normalizeAll(items []model.Item) []Normalized {
	out := make([]Normalized, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}

// rank sorts by score, highest first, keeping repository order for ties.
func rank(matches []model.MatchCandidate) {
	slices.SortStableFunc(matches, func(a, b model.MatchCandidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
