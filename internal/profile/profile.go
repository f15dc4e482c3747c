// Package profile holds the student's profile and the setup state derived from it.
package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/vagas/internal/store"
)

const (
	MinInterestAreas = 2
	MinJobTypes      = 1
	MinWorkModes     = 1
)

// Values offered by the setup form. Listings may add more.
var (
	AreaOptions = []string{
		"Desenvolvimento Web", "Mobile", "IoT", "Cloud", "Segurança", "Redes",
		"Banco de Dados", "Sistemas Embarcados", "Telecomunicações", "Automação",
		"Inteligência Artificial",
	}
	TypeOptions = []string{"Estágio", "Trainee", "Júnior"}
	ModeOptions = []string{"Presencial", "Remoto", "Híbrido"}
)

var (
	ErrCourseRequired   = errors.New("course is required")
	ErrPeriodRequired   = errors.New("period must be at least 1")
	ErrTooFewAreas      = fmt.Errorf("at least %d interest areas are required", MinInterestAreas)
	ErrJobTypeRequired  = errors.New("at least one job type is required")
	ErrWorkModeRequired = errors.New("at least one work mode is required")
)

// Profile is either the zero value or fully valid; Save refuses anything in between.
type Profile struct {
	Course        string   `json:"curso" mapstructure:"course"`
	Period        int      `json:"periodo" mapstructure:"period"`
	InterestAreas []string `json:"areas" mapstructure:"areas"`
	JobTypes      []string `json:"tipos,omitempty" mapstructure:"types"`
	WorkModes     []string `json:"modalidades,omitempty" mapstructure:"modes"`
}

// Normalize trims every value and drops empty and duplicated set members.
func (p Profile) Normalize() Profile {
	return Profile{
		Course:        strings.TrimSpace(p.Course),
		Period:        p.Period,
		InterestAreas: normalizeSet(p.InterestAreas),
		JobTypes:      normalizeSet(p.JobTypes),
		WorkModes:     normalizeSet(p.WorkModes),
	}
}

// Validate reports the first missing requirement, in the order the setup form checks them.
func (p Profile) Validate() error {
	switch {
	case strings.TrimSpace(p.Course) == "":
		return ErrCourseRequired
	case p.Period < 1:
		return ErrPeriodRequired
	case len(normalizeSet(p.InterestAreas)) < MinInterestAreas:
		return ErrTooFewAreas
	case len(normalizeSet(p.JobTypes)) < MinJobTypes:
		return ErrJobTypeRequired
	case len(normalizeSet(p.WorkModes)) < MinWorkModes:
		return ErrWorkModeRequired
	}
	return nil
}

// IsZero reports whether nothing has been set.
func (p Profile) IsZero() bool {
	return p.Course == "" && p.Period == 0 && len(p.InterestAreas) == 0 &&
		len(p.JobTypes) == 0 && len(p.WorkModes) == 0
}

// CanScore reports whether the fields the scorer depends on are present.
func (p Profile) CanScore() bool {
	return p.Course != "" && p.Period > 0 && len(p.InterestAreas) > 0
}

// HasInterest reports whether area is one of the profile's interest areas.
func (p Profile) HasInterest(area string) bool {
	return slices.Contains(p.InterestAreas, area)
}

// Preferences is the subset editable from the listings sidebar.
type Preferences struct {
	Course        string
	Period        int
	InterestAreas []string
}

// WithPreferences returns a copy of p with course, period and areas replaced.
func (p Profile) WithPreferences(prefs Preferences) Profile {
	p.Course = prefs.Course
	p.Period = prefs.Period
	p.InterestAreas = slices.Clone(prefs.InterestAreas)
	return p
}

// Repository persists the profile as a single JSON blob.
type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load returns the stored profile or the zero value when none is stored.
func (r *Repository) Load(ctx context.Context) (Profile, error) {
	var p Profile
	if _, err := store.GetJSON(ctx, r.store, store.ProfileKey, &p); err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Save validates p as a whole and replaces the stored profile.
func (r *Repository) Save(ctx context.Context, p Profile) (Profile, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}

	if err := store.SetJSON(ctx, r.store, store.ProfileKey, p); err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}

	return p, nil
}

func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
