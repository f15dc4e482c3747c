package filtering

import (
	"context"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/matching"
)

func scored(id int, typ, mode, company string, pct int, published string) matching.ScoredListing {
	at, _ := time.Parse("2006-01-02", published)
	return matching.ScoredListing{
		Listing: &listing.Listing{
			ID:          id,
			Type:        typ,
			WorkMode:    mode,
			Company:     company,
			PublishedAt: at,
		},
		Percentage: pct,
		Tier:       matching.TierFor(pct),
	}
}

func sample() []matching.ScoredListing {
	return []matching.ScoredListing{
		scored(1, "Estágio", "Remoto", "Siemens", 67, "2024-03-10"),
		scored(2, "Trainee", "Presencial", "ábaco", 90, "2024-03-18"),
		scored(3, "Estágio", "Presencial", "Padtec", 67, "2024-02-28"),
		scored(4, "Júnior", "Híbrido", "Ericsson", 20, "2024-03-20"),
	}
}

func ids(items []matching.ScoredListing) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		types  []string
		modes  []string
		expect []int
	}{
		{name: "empty sets keep everything in order", expect: []int{1, 2, 3, 4}},
		{name: "type only", types: []string{"Estágio"}, expect: []int{1, 3}},
		{name: "mode only", modes: []string{"Presencial"}, expect: []int{2, 3}},
		{name: "type and mode", types: []string{"Estágio"}, modes: []string{"Presencial"}, expect: []int{3}},
		{name: "no listing matches", types: []string{"Sênior"}, expect: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Select(sample(), tt.types, tt.modes))
			if !slices.Equal(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestSortByMatchIsStable(t *testing.T) {
	input := sample()
	got := ids(Sort(input, SortMatch))
	if !slices.Equal(got, []int{2, 1, 3, 4}) {
		t.Fatalf("unexpected order: %v", got)
	}

	if !slices.Equal(ids(input), []int{1, 2, 3, 4}) {
		t.Fatalf("input was mutated: %v", ids(input))
	}
}

func TestSortByRecent(t *testing.T) {
	got := ids(Sort(sample(), SortRecent))
	if !slices.Equal(got, []int{4, 2, 1, 3}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSortByCompanyUsesCollation(t *testing.T) {
	got := ids(Sort(sample(), SortCompany))
	// "ábaco" sorts with the a's, not after "Siemens" as a byte comparison would put it.
	if !slices.Equal(got, []int{2, 4, 3, 1}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	got := ids(Sort(sample(), SortKey("salary")))
	if !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("unexpected order: %v", got)
	}

	if out := Sort(nil, SortMatch); out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", out)
	}
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]SortKey{
		"match":    SortMatch,
		"recentes": SortRecent,
		" Empresa": SortCompany,
		"company":  SortCompany,
	}
	for in, expect := range tests {
		got, ok := ParseSortKey(in)
		if !ok || got != expect {
			t.Fatalf("ParseSortKey(%q) = %q, %v", in, got, ok)
		}
	}

	if _, ok := ParseSortKey("salary"); ok {
		t.Fatalf("expected unknown key")
	}
}

func TestRunFilters(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	f := New([]Filter{
		NewTypes([]string{"Estágio", "Trainee"}),
		NewModes(nil),
		NewAppliedHistory(true, []int{1}, logger),
		NewMinimumMatch(50),
	}, logger)

	got, err := f.RunFilters(context.Background(), sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(ids(got), []int{2, 3}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}

	entries := observed.FilterMessage("excluding listings based on my applications").All()
	if len(entries) != 1 {
		t.Fatalf("expected one applied history log entry, got %d", len(entries))
	}
}

func TestAppliedHistoryDisabledByDefault(t *testing.T) {
	f := New([]Filter{NewAppliedHistory(false, []int{1, 2}, nil)}, nil)

	got, err := f.RunFilters(context.Background(), sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected all listings, got %v", ids(got))
	}

	statuses := f.Describe()
	if len(statuses) != 1 || statuses[0].Enabled || statuses[0].Reason == "" {
		t.Fatalf("unexpected status: %+v", statuses)
	}
}

func TestMinimumMatchValidation(t *testing.T) {
	f := New([]Filter{NewMinimumMatch(120)}, nil)
	if _, err := f.RunFilters(context.Background(), sample()); err == nil {
		t.Fatalf("expected validation error")
	}

	f = New([]Filter{NewMinimumMatch(0)}, nil)
	got, err := f.RunFilters(context.Background(), sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("zero minimum must keep everything, got %v", ids(got))
	}
}

func TestDisableByName(t *testing.T) {
	f := New([]Filter{
		NewTypes([]string{"Estágio"}),
		NewModes([]string{"Presencial"}),
		NewMinimumMatch(50),
	}, nil)

	f.DisableByName("types", "all types requested")
	f.DisableByName("minimum_match", "no threshold")

	got, err := f.RunFilters(context.Background(), sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(ids(got), []int{2, 3}) {
		t.Fatalf("only the modes filter should apply, got %v", ids(got))
	}

	for _, status := range f.Describe() {
		switch status.Name {
		case "types", "minimum_match":
			if status.Enabled || status.Reason == "" {
				t.Fatalf("expected %s disabled with a reason: %+v", status.Name, status)
			}
		case "modes":
			if !status.Enabled {
				t.Fatalf("modes should stay enabled: %+v", status)
			}
		}
	}
}
