package model

import "time"

// Claim is an ownership assertion against an item.
type Claim struct {
	ID          string      `json:"id"`
	ItemID      string      `json:"item_id"`
	Claimant    Claimant    `json:"claimant"`
	Description string      `json:"description"`
	ProofImages []string    `json:"proof_images,omitempty"`
	Status      ClaimStatus `json:"status"`
	Note        string      `json:"note,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	DecidedAt   *time.Time  `json:"decided_at,omitempty"`

	// TrustScore is computed on read and never stored.
	TrustScore int `json:"trust_score"`
}

// Claimant identifies the user asserting ownership.
type Claimant struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// ClaimantProfile carries the verification flags used by trust scoring.
type ClaimantProfile struct {
	EmailVerified  bool
	MobileVerified bool
}

// ClaimStatus is the adjudication state of a claim.
type ClaimStatus string

// Claim statuses. Approved and rejected are terminal.
const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// Terminal reports whether no further transition is defined from s.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimApproved || s == ClaimRejected
}

// IsDecision reports whether s is a valid adjudication outcome.
func (s ClaimStatus) IsDecision() bool {
	return s.Terminal()
}
