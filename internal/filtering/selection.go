package filtering

import (
	"context"
	"slices"
	"strings"

	"github.com/spigell/vagas/internal/matching"
)

// Select keeps listings whose type is in types and whose work mode is in
// modes. An empty set means no restriction, not "exclude all".
func Select(items []matching.ScoredListing, types, modes []string) []matching.ScoredListing {
	out, _ := keep(items, func(item matching.ScoredListing) bool {
		return allowed(types, item.Type) && allowed(modes, item.WorkMode)
	})
	return out
}

func allowed(set []string, value string) bool {
	return len(set) == 0 || slices.Contains(set, value)
}

type selectionFilter struct {
	name     string
	values   []string
	field    func(matching.ScoredListing) string
	disabled bool
	reason   string
}

// NewTypes creates a filter that keeps listings of the selected types.
func NewTypes(types []string) Filter {
	return &selectionFilter{
		name:   "types",
		values: slices.Clone(types),
		field:  func(item matching.ScoredListing) string { return item.Type },
	}
}

// NewModes creates a filter that keeps listings with the selected work modes.
func NewModes(modes []string) Filter {
	return &selectionFilter{
		name:   "modes",
		values: slices.Clone(modes),
		field:  func(item matching.ScoredListing) string { return item.WorkMode },
	}
}

func (f *selectionFilter) Name() string { return f.name }

func (f *selectionFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *selectionFilter) IsEnabled() bool { return !f.disabled }

func (f *selectionFilter) Validate() error { return nil }

func (f *selectionFilter) Apply(_ context.Context, items []matching.ScoredListing) ([]matching.ScoredListing, Step, error) {
	out, step := keep(items, func(item matching.ScoredListing) bool {
		return allowed(f.values, f.field(item))
	})
	return out, step, nil
}

func (f *selectionFilter) Status() Status {
	details := map[string]string{}
	if len(f.values) > 0 {
		details["selected"] = strings.Join(f.values, ",")
	}
	return Status{Name: f.name, Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
