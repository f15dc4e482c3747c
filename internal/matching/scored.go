package matching

import (
	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/profile"
)

// ScoredListing is a listing with its match derived for one profile. It is
// rebuilt on every profile change, never updated in place.
type ScoredListing struct {
	*listing.Listing
	Percentage int  `json:"matchPercentual"`
	Tier       Tier `json:"matchLevel"`
}

// NewScored scores l once and derives the tier from the stored percentage.
func NewScored(p profile.Profile, l *listing.Listing) ScoredListing {
	pct := Score(p, l)
	return ScoredListing{Listing: l, Percentage: pct, Tier: TierFor(pct)}
}

// ScoreAll scores every listing, keeping input order.
func ScoreAll(p profile.Profile, listings []*listing.Listing) []ScoredListing {
	out := make([]ScoredListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewScored(p, l))
	}
	return out
}
