package api

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/erazemk/najdeno/internal/claim"
	"github.com/erazemk/najdeno/internal/model"
)

// claimService is the claim lifecycle as seen by the claim endpoints.
type claimService interface {
	Submit(ctx context.Context, in claim.SubmitInput) (*model.Claim, error)
	Adjudicate(ctx context.Context, claimID, adjudicatorID string, decision model.ClaimStatus, note string) (*model.Claim, error)
	Reconcile(ctx context.Context, claimID string) (*model.Item, error)
	ListPending(ctx context.Context) ([]model.Claim, error)
	ListMine(ctx context.Context, userID string) ([]model.Claim, error)
}

// ClaimsHandler handles claim submission and adjudication endpoints.
type ClaimsHandler struct {
	DB     *sql.DB
	Claims claimService
}

type submitClaimRequest struct {
	ItemID      string   `json:"item_id"`
	Description string   `json:"description"`
	ProofImages []string `json:"proof_images"`
}

type decisionRequest struct {
	Status model.ClaimStatus `json:"status"`
	Note   string            `json:"note"`
}

// Submit handles POST /api/claims. The caller is the claimant.
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	u, ok := currentUser(w, r, h.DB)
	if !ok {
		return
	}

	c, err := h.Claims.Submit(r.Context(), claim.SubmitInput{
		ItemID:      req.ItemID,
		Claimant:    model.Claimant{UserID: u.ID, Name: u.Name, Contact: u.Contact()},
		Description: req.Description,
		ProofImages: req.ProofImages,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, c)
}

// Pending handles GET /api/claims/pending.
func (h *ClaimsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Claims.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, claims)
}

// Mine handles GET /api/claims/mine.
func (h *ClaimsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Claims.ListMine(r.Context(), GetClaims(r.Context()).UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, claims)
}

// Decide handles POST /api/claims/{id}/decision.
func (h *ClaimsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	c, err := h.Claims.Adjudicate(r.Context(), r.PathValue("id"), GetClaims(r.Context()).UserID(), req.Status, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Reconcile handles POST /api/claims/{id}/reconcile.
func (h *ClaimsHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	item, err := h.Claims.Reconcile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}
