// Package ai declares the assistants that can help a student apply.
package ai

import (
	"context"

	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/profile"
)

// DraftRequest carries what a cover message may be built from.
type DraftRequest struct {
	Profile       profile.Profile
	Listing       *listing.Listing
	ApplicantName string
}

// Drafter proposes a candidature message. The student always gets the final word.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) (string, error)
}
