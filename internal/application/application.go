// Package application keeps the append-only log of submitted applications.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/vagas/internal/store"
)

var ErrMissingField = errors.New("required field is missing")

// Application is never mutated or deleted once stored.
type Application struct {
	ID             string    `json:"id,omitempty"`
	ListingID      int       `json:"vagaId"`
	ApplicantName  string    `json:"nome"`
	ApplicantEmail string    `json:"email"`
	ApplicantPhone string    `json:"telefone"`
	ProfileLink    string    `json:"linkedin"`
	Message        string    `json:"mensagem"`
	SubmittedAt    time.Time `json:"dataEnvio"`
}

// Validate checks the fields the candidature form marks as required.
func (a Application) Validate() error {
	missing := make([]string, 0)
	if strings.TrimSpace(a.ApplicantName) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(a.ApplicantEmail) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(a.Message) == "" {
		missing = append(missing, "message")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Option configures Service.
type Option func(*Service)

// WithClock sets a custom clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithIDGenerator sets the function that assigns application ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

type Service struct {
	store store.Store
	clock func() time.Time
	newID func() string
}

func NewService(s store.Store, opts ...Option) *Service {
	svc := &Service{
		store: s,
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Submit stamps app and appends it to the stored sequence. A failed store
// write is returned; nothing is reported as sent unless the append persisted.
func (s *Service) Submit(ctx context.Context, app Application) (Application, error) {
	if err := app.Validate(); err != nil {
		return Application{}, err
	}

	app.ApplicantName = strings.TrimSpace(app.ApplicantName)
	app.ApplicantEmail = strings.TrimSpace(app.ApplicantEmail)
	app.ApplicantPhone = strings.TrimSpace(app.ApplicantPhone)
	app.ProfileLink = strings.TrimSpace(app.ProfileLink)
	app.ID = s.newID()
	app.SubmittedAt = s.clock().UTC()

	existing, err := s.List(ctx)
	if err != nil {
		return Application{}, err
	}

	if err := store.SetJSON(ctx, s.store, store.ApplicationsKey, append(existing, app)); err != nil {
		return Application{}, fmt.Errorf("append application: %w", err)
	}

	return app, nil
}

// List returns the stored applications in submission order.
func (s *Service) List(ctx context.Context) ([]Application, error) {
	var apps []Application
	if _, err := store.GetJSON(ctx, s.store, store.ApplicationsKey, &apps); err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	if apps == nil {
		apps = []Application{}
	}
	return apps, nil
}

// AppliedIDs returns the distinct listing ids with at least one application.
func (s *Service) AppliedIDs(ctx context.Context) ([]int, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(apps))
	ids := make([]int, 0, len(apps))
	for _, app := range apps {
		if _, ok := seen[app.ListingID]; ok {
			continue
		}
		seen[app.ListingID] = struct{}{}
		ids = append(ids, app.ListingID)
	}
	return ids, nil
}
