package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
)

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	DB     *sql.DB
	Tokens *auth.Tokens
	OTP    otpIssuer
	Claims claimService
	Finder matchFinder
	Match  MatchSettings

	// Media may be left nil; image uploads then answer 503.
	Media imageUploader
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: d.DB, Tokens: d.Tokens, OTP: d.OTP}
	usersHandler := &UsersHandler{DB: d.DB}
	itemsHandler := &ItemsHandler{DB: d.DB, Finder: d.Finder, Match: d.Match}
	claimsHandler := &ClaimsHandler{DB: d.DB, Claims: d.Claims}
	mediaHandler := &MediaHandler{Uploads: d.Media}

	authMW := AuthMiddleware(d.Tokens, d.DB)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireFaculty := RequireRole(model.RoleFaculty)

	// Public: registration and OTP login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/otp", authHandler.RequestOTP)
	mux.HandleFunc("POST /api/auth/otp/verify", authHandler.VerifyOTP)

	// Authenticated session routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}/role", authMW(requireAdmin(http.HandlerFunc(usersHandler.UpdateRole))))

	// Items: report and read (all roles), status override (admin).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("GET /api/items/{id}/matches", authMW(http.HandlerFunc(itemsHandler.Matches)))
	mux.Handle("PUT /api/items/{id}/status", authMW(requireAdmin(http.HandlerFunc(itemsHandler.SetStatus))))
	mux.Handle("GET /api/matches/recommendations", authMW(requireFaculty(http.HandlerFunc(itemsHandler.Recommendations))))

	// Claims: submit and own list (all roles), queue and decision (faculty+), reconcile (admin).
	mux.Handle("POST /api/claims", authMW(http.HandlerFunc(claimsHandler.Submit)))
	mux.Handle("GET /api/claims/mine", authMW(http.HandlerFunc(claimsHandler.Mine)))
	mux.Handle("GET /api/claims/pending", authMW(requireFaculty(http.HandlerFunc(claimsHandler.Pending))))
	mux.Handle("POST /api/claims/{id}/decision", authMW(requireFaculty(http.HandlerFunc(claimsHandler.Decide))))
	mux.Handle("POST /api/claims/{id}/reconcile", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Reconcile))))

	// Item and proof photos (all roles).
	mux.Handle("POST /api/media/proofs", authMW(http.HandlerFunc(mediaHandler.UploadProof)))
	mux.Handle("POST /api/media/items", authMW(http.HandlerFunc(mediaHandler.UploadItemImage)))

	return mux
}
