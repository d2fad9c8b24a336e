package claim

import (
	"strings"
	"unicode/utf8"

	"github.com/erazemk/najdeno/internal/model"
)

// Trust score weights.
const (
	trustBase           = 50
	trustDescription    = 15
	trustProof          = 20
	trustEmailVerified  = 10
	trustMobileVerified = 5
	trustMax            = 100

	// minDetailedDescription is the rune count a description must exceed to count as detailed.
	minDetailedDescription = 20
)

// ComputeTrustScore estimates how credible a claim is from its evidence and
// the claimant's verified contact channels. The result is in [0, 100].
func ComputeTrustScore(c model.Claim, p model.ClaimantProfile) int {
	score := trustBase
	if utf8.RuneCountInString(strings.TrimSpace(c.Description)) > minDetailedDescription {
		score += trustDescription
	}
	if len(c.ProofImages) > 0 {
		score += trustProof
	}
	if p.EmailVerified {
		score += trustEmailVerified
	}
	if p.MobileVerified {
		score += trustMobileVerified
	}
	return min(score, trustMax)
}
