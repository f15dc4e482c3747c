// Package portal holds the listings page state: profile, listings, filter
// selections and sort key. Every change recomputes the view and notifies
// subscribers. State is not safe for concurrent use.
package portal

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/application"
	"github.com/spigell/vagas/internal/filtering"
	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/logger"
	"github.com/spigell/vagas/internal/matching"
	"github.com/spigell/vagas/internal/profile"
)

const appliedHistoryFilter = "applied_history"

// ErrNoApplicationLog is returned by Apply when State was built without an
// application service.
var ErrNoApplicationLog = errors.New("no application log configured")

type ListingSource interface {
	Fetch(ctx context.Context) (*listing.Listings, error)
}

// View is what the listings page shows after the latest change.
type View struct {
	State    profile.State
	Display  profile.Display
	Profile  profile.Profile
	Listings []matching.ScoredListing
	Count    int
	Types    []string
	Modes    []string
	Sort     filtering.SortKey
}

type Options struct {
	Profiles     *profile.Repository
	Applications *application.Service
	Source       ListingSource
	Notices      Notices
	Logger       *zap.Logger

	// HideApplied drops listings the student already applied to.
	HideApplied bool
	// MinimumMatch hides listings below this percentage; 0 disables it.
	MinimumMatch int
	Sort         filtering.SortKey
}

type State struct {
	profiles     *profile.Repository
	applications *application.Service
	source       ListingSource
	notices      Notices
	logger       *zap.Logger
	hideApplied  bool
	minimumMatch int

	state    profile.State
	profile  profile.Profile
	listings *listing.Listings
	scored   []matching.ScoredListing
	applied  []int
	types    []string
	modes    []string
	sortKey  filtering.SortKey

	// historyIssue disables the applied-history filter when set.
	historyIssue string

	view        View
	subscribers []func(View)
}

func New(opts Options) *State {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notices := opts.Notices
	if notices == nil {
		notices = LogNotices{Logger: log}
	}
	sortKey := opts.Sort
	if sortKey == "" {
		sortKey = filtering.SortMatch
	}

	return &State{
		profiles:     opts.Profiles,
		applications: opts.Applications,
		source:       opts.Source,
		notices:      notices,
		logger:       log,
		hideApplied:  opts.HideApplied,
		minimumMatch: opts.MinimumMatch,
		listings:     &listing.Listings{},
		sortKey:      sortKey,
	}
}

// Subscribe registers fn to receive every recomputed view.
func (s *State) Subscribe(fn func(View)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *State) View() View {
	return s.view
}

// Load reads the stored profile, then fetches the listings once. A fetch
// failure is reported as a notice and leaves the listing set empty.
func (s *State) Load(ctx context.Context) error {
	p, err := s.profiles.Load(ctx)
	if err != nil {
		return err
	}
	s.profile = p
	s.state = profile.StateOf(p)

	s.historyIssue = ""
	if s.applications == nil {
		s.historyIssue = "no application log"
	} else if s.applied, err = s.applications.AppliedIDs(ctx); err != nil {
		s.logger.Warn("application history unavailable", zap.Error(err))
		s.historyIssue = "application history unavailable"
	}

	listings, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error("failed to load listings", zap.Error(err))
		s.notices.Notice(Notice{Level: NoticeError, Text: MsgListingsFailed})
		listings = &listing.Listings{}
	}
	s.listings = listings
	s.logger.Debug("listings loaded", zap.Int("count", listings.Len()))

	s.types = listings.Types()
	s.modes = listings.Modes()

	return s.rescore(ctx)
}

// SubmitSetup validates and saves the setup form. Invalid submissions are
// reported and leave the state untouched.
func (s *State) SubmitSetup(ctx context.Context, p profile.Profile) error {
	return s.saveProfile(ctx, p, MsgProfileConfigured)
}

// EditPreferences merges course, period and areas into the stored profile
// and saves the result as a whole.
func (s *State) EditPreferences(ctx context.Context, prefs profile.Preferences) error {
	return s.saveProfile(ctx, s.profile.WithPreferences(prefs), MsgPreferencesSaved)
}

func (s *State) saveProfile(ctx context.Context, p profile.Profile, success string) error {
	saved, err := s.profiles.Save(ctx, p)
	if err != nil {
		s.fail(err, MsgSaveFailed)
		return err
	}

	s.profile = saved
	s.state = profile.Transition(s.state, saved)
	s.notices.Notice(Notice{Level: NoticeSuccess, Text: success})

	return s.rescore(ctx)
}

// SetFilters replaces the selected types and modes. An empty set means no
// restriction.
func (s *State) SetFilters(ctx context.Context, types, modes []string) error {
	s.types = slices.Clone(types)
	s.modes = slices.Clone(modes)
	return s.refresh(ctx)
}

// ClearFilters selects every known type and mode again.
func (s *State) ClearFilters(ctx context.Context) error {
	s.types = s.listings.Types()
	s.modes = s.listings.Modes()
	return s.refresh(ctx)
}

// SetSort changes the ordering. Unknown keys keep the source order.
func (s *State) SetSort(ctx context.Context, key filtering.SortKey) error {
	s.sortKey = key
	return s.refresh(ctx)
}

// Catalog is what the setup and filter forms can offer.
type Catalog struct {
	Types []string
	Modes []string
	Areas []string
}

// Catalog merges the form's fixed options with what the loaded listings use.
func (s *State) Catalog() Catalog {
	return Catalog{
		Types: union(profile.TypeOptions, s.listings.Types()),
		Modes: union(profile.ModeOptions, s.listings.Modes()),
		Areas: union(profile.AreaOptions, s.listings.Areas(), s.profile.InterestAreas),
	}
}

func union(sets ...[]string) []string {
	out := make([]string, 0)
	for _, set := range sets {
		for _, v := range set {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// Profile returns the profile the view was computed from.
func (s *State) Profile() profile.Profile {
	return s.profile
}

// Find returns the scored listing with id, whatever the current filters.
func (s *State) Find(id int) (matching.ScoredListing, bool) {
	for _, item := range s.scored {
		if item.ID == id {
			return item, true
		}
	}
	return matching.ScoredListing{}, false
}

// Apply submits a candidature for one listing. Store failures are reported
// and returned, never swallowed.
func (s *State) Apply(ctx context.Context, app application.Application) (application.Application, error) {
	if s.applications == nil {
		s.fail(ErrNoApplicationLog, MsgApplicationFailed)
		return application.Application{}, ErrNoApplicationLog
	}

	saved, err := s.applications.Submit(ctx, app)
	if err != nil {
		s.fail(err, MsgApplicationFailed)
		return application.Application{}, err
	}

	s.logger.Info("application sent",
		zap.Int("listing_id", saved.ListingID),
		zap.String("application_id", saved.ID),
	)
	s.notices.Notice(Notice{Level: NoticeSuccess, Text: MsgApplicationSent})

	if !slices.Contains(s.applied, saved.ListingID) {
		s.applied = append(s.applied, saved.ListingID)
	}

	return saved, s.refresh(ctx)
}

func (s *State) fail(err error, fallback string) {
	text := messageFor(err)
	if text == "" {
		s.logger.Error(fallback, zap.Error(err))
		text = fallback
	}
	s.notices.Notice(Notice{Level: NoticeError, Text: text})
}

// rescore rebuilds every scored listing from the current profile.
func (s *State) rescore(ctx context.Context) error {
	s.scored = matching.ScoreAll(s.profile, s.listings.Items)
	for _, item := range s.scored {
		s.logger.Debug("listing scored", logger.MatchFields(item.ID, item.Company, item.Percentage)...)
	}
	return s.refresh(ctx)
}

func (s *State) refresh(ctx context.Context) error {
	chain := filtering.New([]filtering.Filter{
		filtering.NewTypes(s.types),
		filtering.NewModes(s.modes),
		filtering.NewMinimumMatch(s.minimumMatch),
		filtering.NewAppliedHistory(s.hideApplied, s.applied, s.logger),
	}, s.logger)

	if s.historyIssue != "" {
		chain.DisableByName(appliedHistoryFilter, s.historyIssue)
	}

	items, err := chain.RunFilters(ctx, s.scored)
	if err != nil {
		return err
	}
	items = filtering.Sort(items, s.sortKey)

	display := profile.DisplayOf(s.profile)
	if display == profile.ProfileRequired {
		items = []matching.ScoredListing{}
	}

	s.view = View{
		State:    s.state,
		Display:  display,
		Profile:  s.profile,
		Listings: items,
		Count:    len(items),
		Types:    slices.Clone(s.types),
		Modes:    slices.Clone(s.modes),
		Sort:     s.sortKey,
	}

	s.logger.Debug("view refreshed",
		zap.Int("count", len(items)),
		zap.String("sort", string(s.sortKey)),
		zap.Any("filters", chain.Describe()),
	)

	for _, fn := range s.subscribers {
		fn(s.view)
	}

	return nil
}
