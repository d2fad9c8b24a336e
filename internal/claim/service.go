package claim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
)

type itemRepo interface {
	Get(ctx context.Context, id string) (*model.Item, error)
	SetStatus(ctx context.Context, id string, from, to model.Status) error
}

type claimRepo interface {
	Create(ctx context.Context, c model.Claim) (*model.Claim, error)
	Get(ctx context.Context, id string) (*model.Claim, error)
	ListPending(ctx context.Context) ([]model.Claim, error)
	ListByClaimant(ctx context.Context, userID string) ([]model.Claim, error)
	SetStatus(ctx context.Context, id string, from, to model.ClaimStatus, note string) error
}

type userRepo interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service runs the claim lifecycle.
type Service struct {
	log    *slog.Logger
	items  itemRepo
	claims claimRepo
	users  userRepo
	tx     txManager
}

// NewService creates a claim Service. With a nil tx the claim and item writes
// of an approval are not atomic and a failed item write is reported as a
// *model.PartialAdjudicationError.
func NewService(log *slog.Logger, items itemRepo, claims claimRepo, users userRepo, tx txManager) *Service {
	return &Service{
		log:    log.With("service", "claim"),
		items:  items,
		claims: claims,
		users:  users,
		tx:     tx,
	}
}

// SubmitInput is the data needed to open a claim.
type SubmitInput struct {
	ItemID      string
	Claimant    model.Claimant
	Description string
	ProofImages []string
}

// Validate checks the input before any repository call.
func (in SubmitInput) Validate() error {
	if in.ItemID == "" {
		return fmt.Errorf("%w: item id is required", model.ErrInvalidInput)
	}
	if in.Claimant.UserID == "" {
		return fmt.Errorf("%w: claimant is required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: description is required", model.ErrInvalidInput)
	}
	for _, u := range in.ProofImages {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%w: proof image url is empty", model.ErrInvalidInput)
		}
	}
	return nil
}

// Submit opens a pending claim against an active item. The item status is
// not changed.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*model.Claim, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.Get(ctx, in.ItemID)
	if err != nil {
		return nil, model.Dependency("getting item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", in.ItemID, model.ErrNotFound)
	}
	if item.Status != model.ItemStatusActive {
		return nil, fmt.Errorf("item %s is %s: %w", item.ID, item.Status, model.ErrInvalidState)
	}

	c, err := s.claims.Create(ctx, model.Claim{
		ItemID:      item.ID,
		Claimant:    in.Claimant,
		Description: strings.TrimSpace(in.Description),
		ProofImages: in.ProofImages,
	})
	if err != nil {
		return nil, model.Dependency("creating claim", err)
	}

	scored := []model.Claim{*c}
	s.withTrust(ctx, scored)
	c = &scored[0]

	s.log.InfoContext(ctx, "claim submitted",
		slog.String("claim_id", c.ID),
		slog.String("item_id", c.ItemID),
		slog.String("claimant_id", c.Claimant.UserID),
		slog.Int("trust_score", c.TrustScore),
	)
	return c, nil
}

// Adjudicate moves a pending claim to approved or rejected on behalf of
// adjudicatorID. Approving also moves the item from active to claimed. Nobody
// may decide a claim they filed themselves.
func (s *Service) Adjudicate(ctx context.Context, claimID, adjudicatorID string, decision model.ClaimStatus, note string) (*model.Claim, error) {
	if !decision.IsDecision() {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", model.ErrInvalidInput)
	}
	note = strings.TrimSpace(note)

	var decided *model.Claim
	run := func(ctx context.Context) error {
		c, err := s.decide(ctx, claimID, adjudicatorID, decision, note)
		decided = c
		return err
	}

	var err error
	if s.tx != nil {
		err = s.tx.RunInTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		var partial *model.PartialAdjudicationError
		if errors.As(err, &partial) {
			s.log.ErrorContext(ctx, "claim approved but item not updated, reconcile required",
				slog.String("claim_id", partial.ClaimID),
				slog.String("item_id", partial.ItemID),
				slog.Any("error", partial.Err),
			)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "claim adjudicated",
		slog.String("claim_id", decided.ID),
		slog.String("item_id", decided.ItemID),
		slog.String("decision", string(decision)),
	)

	scored := []model.Claim{*decided}
	s.withTrust(ctx, scored)
	return &scored[0], nil
}

func (s *Service) decide(ctx context.Context, claimID, adjudicatorID string, decision model.ClaimStatus, note string) (*model.Claim, error) {
	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, model.Dependency("getting claim", err)
	}
	if c == nil {
		return nil, fmt.Errorf("claim %s: %w", claimID, model.ErrNotFound)
	}
	if c.Claimant.UserID == adjudicatorID {
		return nil, fmt.Errorf("claim %s was filed by its adjudicator: %w", c.ID, model.ErrForbidden)
	}
	if c.Status != model.ClaimPending {
		return nil, fmt.Errorf("claim %s is already %s: %w", c.ID, c.Status, model.ErrInvalidTransition)
	}

	if decision == model.ClaimApproved {
		item, err := s.items.Get(ctx, c.ItemID)
		if err != nil {
			return nil, model.Dependency("getting item", err)
		}
		if item == nil {
			return nil, fmt.Errorf("item %s: %w", c.ItemID, model.ErrNotFound)
		}
		if item.Status != model.ItemStatusActive {
			return nil, fmt.Errorf("item %s is %s: %w", item.ID, item.Status, model.ErrInvalidState)
		}
	}

	err = s.claims.SetStatus(ctx, c.ID, model.ClaimPending, decision, note)
	switch {
	case errors.Is(err, model.ErrConflict):
		return nil, fmt.Errorf("claim %s was decided concurrently: %w", c.ID, model.ErrInvalidTransition)
	case errors.Is(err, model.ErrNotFound):
		return nil, fmt.Errorf("claim %s: %w", c.ID, model.ErrNotFound)
	case err != nil:
		return nil, model.Dependency("setting claim status", err)
	}

	if decision == model.ClaimApproved {
		if err := s.claimItem(ctx, c); err != nil {
			return nil, err
		}
	}

	decided, err := s.claims.Get(ctx, c.ID)
	if err != nil {
		return nil, model.Dependency("getting claim", err)
	}
	if decided == nil {
		c.Status = decision
		c.Note = note
		decided = c
	}
	return decided, nil
}

// claimItem moves the claimed item from active to claimed after the claim
// row was approved.
func (s *Service) claimItem(ctx context.Context, c *model.Claim) error {
	err := s.items.SetStatus(ctx, c.ItemID, model.ItemStatusActive, model.ItemStatusClaimed)
	if err == nil {
		return nil
	}

	if s.tx != nil {
		// The transaction rolls the claim back, so the caller sees a clean failure.
		if errors.Is(err, model.ErrConflict) {
			return fmt.Errorf("item %s is no longer active: %w", c.ItemID, model.ErrInvalidState)
		}
		return model.Dependency("setting item status", err)
	}
	return &model.PartialAdjudicationError{ClaimID: c.ID, ItemID: c.ItemID, Err: err}
}

// Reconcile finishes an approval whose item write failed. It is idempotent:
// an item that is already claimed or resolved is returned unchanged.
func (s *Service) Reconcile(ctx context.Context, claimID string) (*model.Item, error) {
	c, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, model.Dependency("getting claim", err)
	}
	if c == nil {
		return nil, fmt.Errorf("claim %s: %w", claimID, model.ErrNotFound)
	}
	if c.Status != model.ClaimApproved {
		return nil, fmt.Errorf("claim %s is %s: %w", c.ID, c.Status, model.ErrInvalidState)
	}

	item, err := s.items.Get(ctx, c.ItemID)
	if err != nil {
		return nil, model.Dependency("getting item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", c.ItemID, model.ErrNotFound)
	}
	if item.Status != model.ItemStatusActive {
		return item, nil
	}

	err = s.items.SetStatus(ctx, item.ID, model.ItemStatusActive, model.ItemStatusClaimed)
	if err != nil && !errors.Is(err, model.ErrConflict) {
		return nil, model.Dependency("setting item status", err)
	}

	item, err = s.items.Get(ctx, c.ItemID)
	if err != nil {
		return nil, model.Dependency("getting item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", c.ItemID, model.ErrNotFound)
	}

	s.log.InfoContext(ctx, "claim reconciled",
		slog.String("claim_id", c.ID),
		slog.String("item_id", item.ID),
		slog.String("item_status", string(item.Status)),
	)
	return item, nil
}

// ListPending returns the adjudication queue with trust scores filled in.
func (s *Service) ListPending(ctx context.Context) ([]model.Claim, error) {
	claims, err := s.claims.ListPending(ctx)
	if err != nil {
		return nil, model.Dependency("listing pending claims", err)
	}
	s.withTrust(ctx, claims)
	return claims, nil
}

// ListMine returns the claims filed by one user.
func (s *Service) ListMine(ctx context.Context, userID string) ([]model.Claim, error) {
	claims, err := s.claims.ListByClaimant(ctx, userID)
	if err != nil {
		return nil, model.Dependency("listing claims", err)
	}
	s.withTrust(ctx, claims)
	return claims, nil
}

// withTrust fills TrustScore on every claim. Claimant profiles are loaded once
// per user; a failed lookup scores the claimant as unverified.
func (s *Service) withTrust(ctx context.Context, claims []model.Claim) {
	profiles := make(map[string]model.ClaimantProfile)
	profile := func(userID string) model.ClaimantProfile {
		if p, ok := profiles[userID]; ok {
			return p
		}
		var p model.ClaimantProfile
		if s.users != nil {
			u, err := s.users.Get(ctx, userID)
			if err != nil {
				s.log.WarnContext(ctx, "loading claimant profile failed",
					slog.String("user_id", userID), slog.Any("error", err))
			} else if u != nil {
				p = u.Profile()
			}
		}
		profiles[userID] = p
		return p
	}

	for i := range claims {
		claims[i].TrustScore = ComputeTrustScore(claims[i], profile(claims[i].Claimant.UserID))
	}
}
