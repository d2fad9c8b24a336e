package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

// ItemRepo exposes the item functions as a repository. Calls join the
// transaction carried by ctx, if any.
type ItemRepo struct {
	conn *sql.DB
}

// NewItemRepo creates an ItemRepo.
func NewItemRepo(conn *sql.DB) *ItemRepo {
	return &ItemRepo{conn: conn}
}

func (r *ItemRepo) ListActive(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	return ListItems(ctx, db.QuerierFromCtx(ctx, r.conn), ItemFilter{Kind: kind, Status: model.ItemStatusActive})
}

func (r *ItemRepo) List(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	return ListItems(ctx, db.QuerierFromCtx(ctx, r.conn), f)
}

func (r *ItemRepo) Get(ctx context.Context, id string) (*model.Item, error) {
	return GetItem(ctx, db.QuerierFromCtx(ctx, r.conn), id)
}

func (r *ItemRepo) Create(ctx context.Context, item model.Item) (*model.Item, error) {
	return CreateItem(ctx, db.QuerierFromCtx(ctx, r.conn), item)
}

func (r *ItemRepo) SetStatus(ctx context.Context, id string, from, to model.Status) error {
	return SetItemStatus(ctx, db.QuerierFromCtx(ctx, r.conn), id, from, to)
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return DeleteItem(ctx, db.QuerierFromCtx(ctx, r.conn), id)
}

// ClaimRepo exposes the claim functions as a repository.
type ClaimRepo struct {
	conn *sql.DB
}

// NewClaimRepo creates a ClaimRepo.
func NewClaimRepo(conn *sql.DB) *ClaimRepo {
	return &ClaimRepo{conn: conn}
}

func (r *ClaimRepo) Create(ctx context.Context, c model.Claim) (*model.Claim, error) {
	return CreateClaim(ctx, db.QuerierFromCtx(ctx, r.conn), c)
}

func (r *ClaimRepo) Get(ctx context.Context, id string) (*model.Claim, error) {
	return GetClaim(ctx, db.QuerierFromCtx(ctx, r.conn), id)
}

func (r *ClaimRepo) ListPending(ctx context.Context) ([]model.Claim, error) {
	return ListClaims(ctx, db.QuerierFromCtx(ctx, r.conn), ClaimFilter{Status: model.ClaimPending})
}

func (r *ClaimRepo) ListByClaimant(ctx context.Context, userID string) ([]model.Claim, error) {
	return ListClaims(ctx, db.QuerierFromCtx(ctx, r.conn), ClaimFilter{ClaimantID: userID})
}

func (r *ClaimRepo) SetStatus(ctx context.Context, id string, from, to model.ClaimStatus, note string) error {
	return SetClaimStatus(ctx, db.QuerierFromCtx(ctx, r.conn), id, from, to, note)
}

// SessionRepo exposes the OTP session functions as a repository.
type SessionRepo struct {
	conn *sql.DB
}

// NewSessionRepo creates a SessionRepo.
func NewSessionRepo(conn *sql.DB) *SessionRepo {
	return &SessionRepo{conn: conn}
}

func (r *SessionRepo) Create(ctx context.Context, s model.OTPSession) (string, error) {
	return CreateSession(ctx, db.QuerierFromCtx(ctx, r.conn), s)
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*model.OTPSession, error) {
	return GetSession(ctx, db.QuerierFromCtx(ctx, r.conn), id)
}

func (r *SessionRepo) Update(ctx context.Context, id string, p model.SessionPatch) error {
	return UpdateSession(ctx, db.QuerierFromCtx(ctx, r.conn), id, p)
}

// UserRepo exposes the user functions needed by the claim and auth services.
type UserRepo struct {
	conn *sql.DB
}

// NewUserRepo creates a UserRepo.
func NewUserRepo(conn *sql.DB) *UserRepo {
	return &UserRepo{conn: conn}
}

func (r *UserRepo) Get(ctx context.Context, id string) (*model.User, error) {
	return GetUser(ctx, db.QuerierFromCtx(ctx, r.conn), id)
}

func (r *UserRepo) MarkVerified(ctx context.Context, id string, channels []model.Channel) error {
	return MarkUserVerified(ctx, db.QuerierFromCtx(ctx, r.conn), id, channels)
}
