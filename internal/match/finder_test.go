package match

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/erazemk/najdeno/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func report(id string, kind model.Kind, category, color, location string, at time.Time) model.Item {
	return model.Item{
		ID:        id,
		Kind:      kind,
		Category:  category,
		Color:     color,
		Location:  location,
		Status:    model.ItemStatusActive,
		CreatedAt: at,
	}
}

// inventory serves fixed lost and found lists.
func inventory(lost, found []model.Item) *itemListerMock {
	return &itemListerMock{
		ListActiveFunc: func(_ context.Context, kind model.Kind) ([]model.Item, error) {
			if kind == model.KindLost {
				return lost, nil
			}
			return found, nil
		},
	}
}

func ids(matches []model.MatchCandidate) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Lost.ID + "/" + m.Found.ID
	}
	return out
}

func TestFindMatchesForLostItem(t *testing.T) {
	lost := report("L1", model.KindLost, "Electronics", "Black", "Library", base)
	found := []model.Item{
		report("F1", model.KindFound, "Electronics", "Navy", "Cafeteria", base.Add(time.Hour)),   // 30+15+0+15 = 60
		report("F2", model.KindFound, "Electronics", "Black", "Library", base.Add(2*time.Hour)),  // 30+25+20+15 = 90
		report("F3", model.KindFound, "Wallets", "Brown", "Hostel", base.Add(30*24*time.Hour)),   // 0
		report("F4", model.KindFound, "Electronics", "Black", "Cafeteria", base.Add(time.Hour)),  // 30+25+0+15 = 70
		report("F5", model.KindFound, "Electronics", "Dark Gray", "Sports", base.Add(time.Hour)), // 30+15+0+15 = 60
	}
	repo := inventory(nil, found)
	f := NewFinder(repo, discardLogger())

	matches := f.FindMatchesFor(context.Background(), lost, DefaultMinScore)

	// Ties keep repository order.
	want := []string{"L1/F2", "L1/F4", "L1/F1", "L1/F5"}
	if diff := cmp.Diff(want, ids(matches)); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, DefaultMinScore)
		assert.Equal(t, model.ConfidenceFor(m.Score), m.Confidence)
	}
	assert.Equal(t, 90, matches[0].Score)

	calls := repo.ListActiveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, model.KindFound, calls[0].Kind)
}

func TestFindMatchesForFoundItemOrientsPairs(t *testing.T) {
	found := report("F1", model.KindFound, "Keys", "Silver", "Hostel", base)
	lost := []model.Item{report("L1", model.KindLost, "Keys", "Silver", "Hostel", base)}
	f := NewFinder(inventory(lost, nil), discardLogger())

	matches := f.FindMatchesFor(context.Background(), found, DefaultMinScore)

	require.Len(t, matches, 1)
	assert.Equal(t, "L1", matches[0].Lost.ID)
	assert.Equal(t, "F1", matches[0].Found.ID)
	assert.Equal(t, 90, matches[0].Score)
	assert.Equal(t, model.ConfidenceExcellent, matches[0].Confidence)
}

func TestFindMatchesForNeverReturnsBelowThreshold(t *testing.T) {
	lost := report("L1", model.KindLost, "Bags", "Red", "Block A", base)
	var found []model.Item
	for i, c := range []string{"Bags", "bag", "Books", ""} {
		for j, color := range []string{"Red", "maroon", "Blue", ""} {
			found = append(found, report(
				string(rune('a'+i))+string(rune('a'+j)), model.KindFound, c, color, "block a",
				base.Add(time.Duration(i*j)*24*time.Hour),
			))
		}
	}
	f := NewFinder(inventory(nil, found), discardLogger())

	for _, min := range []int{0, 40, 55, 70, 90, 101} {
		for _, m := range f.FindMatchesFor(context.Background(), lost, min) {
			assert.GreaterOrEqual(t, m.Score, min)
		}
	}
	assert.Empty(t, f.FindMatchesFor(context.Background(), lost, 101))
	assert.Len(t, f.FindMatchesFor(context.Background(), lost, 0), len(found))
}

func TestFindMatchesForRepositoryFailure(t *testing.T) {
	repo := &itemListerMock{
		ListActiveFunc: func(context.Context, model.Kind) ([]model.Item, error) {
			return nil, errors.New("database is locked")
		},
	}
	f := NewFinder(repo, discardLogger())

	matches := f.FindMatchesFor(context.Background(), report("L1", model.KindLost, "Keys", "", "", base), 0)

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestFindMatchesForUnknownKind(t *testing.T) {
	repo := inventory(nil, nil)
	f := NewFinder(repo, discardLogger())

	matches := f.FindMatchesFor(context.Background(), model.Item{ID: "x", Kind: "stolen"}, 0)

	assert.Empty(t, matches)
	assert.Empty(t, repo.ListActiveCalls())
}

func TestTopRecommendations(t *testing.T) {
	lost := []model.Item{
		report("L1", model.KindLost, "Electronics", "Black", "Library", base),
		report("L2", model.KindLost, "Keys", "Silver", "Hostel", base),
	}
	found := []model.Item{
		report("F1", model.KindFound, "Keys", "Silver", "Hostel", base.Add(time.Hour)),          // vs L2: 90
		report("F2", model.KindFound, "Electronics", "Navy", "Library", base.Add(time.Hour)),    // vs L1: 30+15+20+15 = 80
		report("F3", model.KindFound, "Electronics", "Black", "Cafeteria", base.Add(time.Hour)), // vs L1: 70
		report("F4", model.KindFound, "Umbrella", "Red", "Sports", base.Add(20*24*time.Hour)),
	}
	repo := inventory(lost, found)
	f := NewFinder(repo, discardLogger())

	all := f.TopRecommendations(context.Background(), RecommendationMinScore, 0)
	if diff := cmp.Diff([]string{"L2/F1", "L1/F2", "L1/F3"}, ids(all)); diff != "" {
		t.Errorf("recommendations mismatch (-want +got):\n%s", diff)
	}

	top := f.TopRecommendations(context.Background(), RecommendationMinScore, 2)
	assert.Equal(t, []string{"L2/F1", "L1/F2"}, ids(top))

	assert.Len(t, repo.ListActiveCalls(), 4)
}

func TestTopRecommendationsRepositoryFailure(t *testing.T) {
	repo := &itemListerMock{
		ListActiveFunc: func(_ context.Context, kind model.Kind) ([]model.Item, error) {
			if kind == model.KindFound {
				return nil, errors.New("connection reset")
			}
			return []model.Item{report("L1", model.KindLost, "Keys", "", "", base)}, nil
		},
	}
	f := NewFinder(repo, discardLogger())

	recs := f.TopRecommendations(context.Background(), 0, 10)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
