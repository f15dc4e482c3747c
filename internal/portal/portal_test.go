package portal

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/spigell/vagas/internal/application"
	"github.com/spigell/vagas/internal/filtering"
	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/matching"
	"github.com/spigell/vagas/internal/profile"
	"github.com/spigell/vagas/internal/store"
)

type stubSource struct {
	listings *listing.Listings
	err      error
}

func (s stubSource) Fetch(context.Context) (*listing.Listings, error) {
	return s.listings, s.err
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fixtures() *listing.Listings {
	return &listing.Listings{Items: []*listing.Listing{
		{
			ID: 1, Company: "Inatel", Type: "Estágio", WorkMode: "Híbrido",
			Courses: []string{matching.CourseSoftwareEngineering}, MinimumPeriod: 4,
			Areas: []string{"Cloud", "Desenvolvimento Web"}, PublishedAt: day("2024-03-10"),
		},
		{
			ID: 2, Company: "Padtec", Type: "Júnior", WorkMode: "Presencial",
			Courses: []string{matching.CourseElectricalEngineering}, MinimumPeriod: 9,
			Areas: []string{"IoT"}, PublishedAt: day("2024-03-18"),
		},
		{
			ID: 3, Company: "ABB", Type: "Estágio", WorkMode: "Remoto",
			Courses: []string{matching.CourseComputerEngineering}, MinimumPeriod: 6,
			Areas: []string{"Redes"}, PublishedAt: day("2024-03-01"),
		},
	}}
}

func validProfile() profile.Profile {
	return profile.Profile{
		Course:        matching.CourseSoftwareEngineering,
		Period:        5,
		InterestAreas: []string{"Cloud", "Redes"},
		JobTypes:      []string{"Estágio"},
		WorkModes:     []string{"Remoto"},
	}
}

type harness struct {
	state   *State
	store   *store.Memory
	notices []Notice
	views   []View
}

func newHarness(t *testing.T, src ListingSource, opts Options) *harness {
	t.Helper()

	h := &harness{store: store.NewMemory()}
	opts.Profiles = profile.NewRepository(h.store)
	opts.Applications = application.NewService(h.store)
	opts.Source = src
	opts.Notices = NoticeFunc(func(n Notice) { h.notices = append(h.notices, n) })

	h.state = New(opts)
	h.state.Subscribe(func(v View) { h.views = append(h.views, v) })

	return h
}

func (h *harness) lastNotice() Notice {
	if len(h.notices) == 0 {
		return Notice{}
	}
	return h.notices[len(h.notices)-1]
}

func ids(items []matching.ScoredListing) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestLoadWithoutProfile(t *testing.T) {
	t.Parallel()

	h := newHarness(t, stubSource{listings: fixtures()}, Options{})
	if err := h.state.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	view := h.state.View()
	if view.State != profile.Unconfigured || view.Display != profile.ProfileRequired {
		t.Fatalf("unexpected states: %v %v", view.State, view.Display)
	}
	if view.Count != 0 {
		t.Fatalf("listings must stay hidden until the profile is set, got %d", view.Count)
	}
	if !slices.Equal(view.Types, []string{"Estágio", "Júnior"}) || len(view.Modes) != 3 {
		t.Fatalf("every known type and mode should start selected: %v %v", view.Types, view.Modes)
	}
	if len(h.views) != 1 {
		t.Fatalf("expected one published view, got %d", len(h.views))
	}
}

func TestLoadFetchFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, stubSource{err: errors.New("connection refused")}, Options{})
	if _, err := h.state.profiles.Save(context.Background(), validProfile()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if err := h.state.Load(context.Background()); err != nil {
		t.Fatalf("fetch failures are not fatal: %v", err)
	}

	if got := h.lastNotice(); got.Level != NoticeError || got.Text != MsgListingsFailed {
		t.Fatalf("unexpected notice %+v", got)
	}
	if view := h.state.View(); view.Count != 0 || view.Display != profile.ListingsAvailable {
		t.Fatalf("expected empty listings under a configured profile, got %+v", view)
	}
}

func TestSubmitSetup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, stubSource{listings: fixtures()}, Options{})
	if err := h.state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	invalid := validProfile()
	invalid.InterestAreas = []string{"Cloud"}
	err := h.state.SubmitSetup(ctx, invalid)
	if !errors.Is(err, profile.ErrTooFewAreas) {
		t.Fatalf("expected ErrTooFewAreas, got %v", err)
	}
	if got := h.lastNotice(); got.Text != MsgTooFewAreas {
		t.Fatalf("unexpected notice %+v", got)
	}
	if _, found, _ := h.store.Get(ctx, store.ProfileKey); found {
		t.Fatal("invalid profile must not be stored")
	}
	if h.state.View().State != profile.Unconfigured {
		t.Fatal("invalid submission must not change the state")
	}

	if err := h.state.SubmitSetup(ctx, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := h.lastNotice(); got.Level != NoticeSuccess || got.Text != MsgProfileConfigured {
		t.Fatalf("unexpected notice %+v", got)
	}

	view := h.state.View()
	if view.State != profile.Configured || view.Display != profile.ListingsAvailable {
		t.Fatalf("unexpected states: %v %v", view.State, view.Display)
	}
	if got := ids(view.Listings); !slices.Equal(got, []int{1, 3, 2}) {
		t.Fatalf("expected match order [1 3 2], got %v", got)
	}
	if view.Listings[0].Percentage != 80 || view.Listings[1].Percentage != 70 || view.Listings[2].Percentage != 0 {
		t.Fatalf("unexpected percentages: %d %d %d",
			view.Listings[0].Percentage, view.Listings[1].Percentage, view.Listings[2].Percentage)
	}
}

func TestFiltersAndSort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, stubSource{listings: fixtures()}, Options{})
	if err := h.state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.state.SubmitSetup(ctx, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := h.state.SetFilters(ctx, []string{"Estágio"}, nil); err != nil {
		t.Fatalf("set filters: %v", err)
	}
	if got := ids(h.state.View().Listings); !slices.Equal(got, []int{1, 3}) {
		t.Fatalf("type filter: got %v", got)
	}

	if err := h.state.SetSort(ctx, filtering.SortCompany); err != nil {
		t.Fatalf("set sort: %v", err)
	}
	if got := ids(h.state.View().Listings); !slices.Equal(got, []int{3, 1}) {
		t.Fatalf("company sort: got %v", got)
	}

	if err := h.state.ClearFilters(ctx); err != nil {
		t.Fatalf("clear filters: %v", err)
	}
	if got := ids(h.state.View().Listings); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("after clear: got %v", got)
	}

	if err := h.state.SetSort(ctx, filtering.SortRecent); err != nil {
		t.Fatalf("set sort: %v", err)
	}
	if got := ids(h.state.View().Listings); !slices.Equal(got, []int{2, 1, 3}) {
		t.Fatalf("recent sort: got %v", got)
	}

	if err := h.state.SetSort(ctx, filtering.SortKey("salario")); err != nil {
		t.Fatalf("set sort: %v", err)
	}
	if got := ids(h.state.View().Listings); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("unknown sort key should keep source order, got %v", got)
	}
}

func TestEditPreferencesKeepsTypesAndModes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, stubSource{listings: fixtures()}, Options{})
	if err := h.state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.state.SubmitSetup(ctx, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	err := h.state.EditPreferences(ctx, profile.Preferences{
		Course:        matching.CourseElectricalEngineering,
		Period:        9,
		InterestAreas: []string{"IoT", "Redes"},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := h.lastNotice(); got.Text != MsgPreferencesSaved {
		t.Fatalf("unexpected notice %+v", got)
	}

	stored, err := h.state.profiles.Load(ctx)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if stored.Course != matching.CourseElectricalEngineering || !slices.Equal(stored.JobTypes, []string{"Estágio"}) {
		t.Fatalf("unexpected stored profile %+v", stored)
	}

	first := h.state.View().Listings[0]
	if first.ID != 2 || first.Percentage != 100 {
		t.Fatalf("expected listing 2 at 100%%, got %d at %d%%", first.ID, first.Percentage)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, stubSource{listings: fixtures()}, Options{HideApplied: true})
	if err := h.state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := h.state.SubmitSetup(ctx, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := h.state.Apply(ctx, application.Application{ListingID: 1, ApplicantName: "Ana"})
	if !errors.Is(err, application.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if got := h.lastNotice(); got.Text != MsgRequiredFields {
		t.Fatalf("unexpected notice %+v", got)
	}

	saved, err := h.state.Apply(ctx, application.Application{
		ListingID:      1,
		ApplicantName:  "Ana",
		ApplicantEmail: "ana@inatel.br",
		Message:        "Tenho interesse na vaga.",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if saved.ID == "" || h.lastNotice().Text != MsgApplicationSent {
		t.Fatalf("unexpected result %+v / %+v", saved, h.lastNotice())
	}
	if got := ids(h.state.View().Listings); slices.Contains(got, 1) {
		t.Fatalf("applied listing should be hidden, got %v", got)
	}
	if _, ok := h.state.Find(1); !ok {
		t.Fatal("Find ignores filters")
	}
}

func TestApplySurfacesStoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, stubSource{listings: fixtures()}, Options{})
	if err := h.state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	h.store.FailWrites = store.ErrQuotaExceeded
	_, err := h.state.Apply(ctx, application.Application{
		ListingID:      2,
		ApplicantName:  "Ana",
		ApplicantEmail: "ana@inatel.br",
		Message:        "Olá",
	})
	if !errors.Is(err, store.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if got := h.lastNotice(); got.Level != NoticeError || got.Text != MsgApplicationFailed {
		t.Fatalf("unexpected notice %+v", got)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	listings := fixtures()
	listings.Items[0].Areas = append(listings.Items[0].Areas, "Quantum")

	h := newHarness(t, stubSource{listings: listings}, Options{})
	if err := h.state.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	catalog := h.state.Catalog()
	if !slices.Equal(catalog.Types, profile.TypeOptions) {
		t.Fatalf("listing types are already form options: %v", catalog.Types)
	}
	if catalog.Areas[len(catalog.Areas)-1] != "Quantum" {
		t.Fatalf("listing-only areas should follow the form options: %v", catalog.Areas)
	}
}

func TestHideAppliedWithoutHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemory()
	state := New(Options{
		Profiles:    profile.NewRepository(s),
		Source:      stubSource{listings: fixtures()},
		HideApplied: true,
	})

	if err := state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := state.SubmitSetup(ctx, validProfile()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := state.View().Count; got != 3 {
		t.Fatalf("nothing can be hidden without an application log, got %d listings", got)
	}
}

func TestApplyWithoutApplicationLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var notices []Notice
	state := New(Options{
		Profiles: profile.NewRepository(store.NewMemory()),
		Source:   stubSource{listings: fixtures()},
		Notices:  NoticeFunc(func(n Notice) { notices = append(notices, n) }),
	})
	if err := state.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := state.Apply(ctx, application.Application{
		ListingID:      1,
		ApplicantName:  "Ana",
		ApplicantEmail: "ana@inatel.br",
		Message:        "Tenho interesse na vaga.",
	})
	if !errors.Is(err, ErrNoApplicationLog) {
		t.Fatalf("expected ErrNoApplicationLog, got %v", err)
	}
	if len(notices) == 0 || notices[len(notices)-1].Text != MsgApplicationFailed {
		t.Fatalf("unexpected notices %+v", notices)
	}
}
