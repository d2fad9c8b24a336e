package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// matchFinder is the match finder as seen by the item endpoints.
type matchFinder interface {
	FindMatchesFor(ctx context.Context, item model.Item, minScore int) []model.MatchCandidate
	TopRecommendations(ctx context.Context, minScore, limit int) []model.MatchCandidate
}

// MatchSettings holds the thresholds used by the match endpoints.
type MatchSettings struct {
	MinScore            int
	RecommendationScore int
	RecommendationLimit int
}

// ItemsHandler handles lost and found report endpoints.
type ItemsHandler struct {
	DB     *sql.DB
	Finder matchFinder
	Match  MatchSettings
}

type createItemRequest struct {
	Kind        model.Kind `json:"kind"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Color       string     `json:"color"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
}

// maxItemImages caps how many photos one report may carry.
const maxItemImages = 5

type createItemResponse struct {
	Item    *model.Item            `json:"item"`
	Matches []model.MatchCandidate `json:"matches"`
}

type setStatusRequest struct {
	Status model.Status `json:"status"`
}

// List handles GET /api/items. Supported filters are kind, status, category
// and mine=1, which limits the list to the caller's own reports.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ItemFilter{
		Kind:     model.Kind(q.Get("kind")),
		Status:   model.Status(q.Get("status")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	switch q.Get("mine") {
	case "", "0", "false":
	case "1", "true":
		f.ReporterID = GetClaims(r.Context()).UserID()
	default:
		jsonError(w, http.StatusBadRequest, "invalid_input", "mine must be 1 or 0")
		return
	}
	if f.Kind != "" && !f.Kind.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid_input", "kind must be lost or found")
		return
	}
	if f.Status != "" && !f.Status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid status")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. The response carries the matches found
// for the new report.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	if !req.Kind.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid_input", "kind must be lost or found")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		jsonError(w, http.StatusBadRequest, "invalid_input", "title required")
		return
	}
	if len(req.Images) > maxItemImages {
		jsonError(w, http.StatusBadRequest, "invalid_input", fmt.Sprintf("at most %d images per item", maxItemImages))
		return
	}
	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		img = strings.TrimSpace(img)
		if img == "" {
			jsonError(w, http.StatusBadRequest, "invalid_input", "image url is empty")
			return
		}
		images = append(images, img)
	}

	u, ok := currentUser(w, r, h.DB)
	if !ok {
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, model.Item{
		Kind:        req.Kind,
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		Color:       strings.TrimSpace(req.Color),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Images:      images,
		Reporter:    model.Reporter{UserID: u.ID, Name: u.Name, Contact: u.Contact()},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	matches := h.Finder.FindMatchesFor(r.Context(), *item, h.Match.MinScore)
	jsonResponse(w, http.StatusCreated, createItemResponse{Item: item, Matches: matches})
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Matches handles GET /api/items/{id}/matches.
func (h *ItemsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	minScore, err := intParam(r, "min_score", h.Match.MinScore)
	if err != nil || minScore < 0 || minScore > 100 {
		jsonError(w, http.StatusBadRequest, "invalid_input", "min_score must be an integer between 0 and 100")
		return
	}

	item, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, h.Finder.FindMatchesFor(r.Context(), *item, minScore))
}

// Delete handles DELETE /api/items/{id}. Only the reporter or an admin may
// delete a report.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.load(w, r)
	if !ok {
		return
	}

	claims := GetClaims(r.Context())
	if item.Reporter.UserID != claims.UserID() && !model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		jsonError(w, http.StatusForbidden, "forbidden", "only the reporter may delete this item")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, item.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetStatus handles PUT /api/items/{id}/status, the administrative override.
func (h *ItemsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}
	if !req.Status.Valid() {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid status")
		return
	}

	item, ok := h.load(w, r)
	if !ok {
		return
	}
	if !model.CanTransition(item.Status, req.Status) {
		writeError(w, r, fmt.Errorf("cannot move item from %s to %s: %w", item.Status, req.Status, model.ErrInvalidState))
		return
	}

	err := store.SetItemStatus(r.Context(), h.DB, item.ID, item.Status, req.Status)
	if errors.Is(err, model.ErrConflict) {
		jsonError(w, http.StatusConflict, "conflict", "item changed concurrently, retry")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err = store.GetItem(r.Context(), h.DB, item.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Recommendations handles GET /api/matches/recommendations.
func (h *ItemsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", h.Match.RecommendationLimit)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "limit must be an integer")
		return
	}
	jsonResponse(w, http.StatusOK, h.Finder.TopRecommendations(r.Context(), h.Match.RecommendationScore, limit))
}

// load fetches the item named by the {id} path value. It writes the error
// response and returns false when the item cannot be loaded.
func (h *ItemsHandler) load(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "not_found", "item not found")
		return nil, false
	}
	return item, true
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
