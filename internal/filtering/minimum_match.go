package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/vagas/internal/matching"
)

type minimumMatchFilter struct {
	minimum  int
	disabled bool
	reason   string
}

// NewMinimumMatch creates a filter that drops listings scoring below minimum.
// A zero minimum keeps everything.
func NewMinimumMatch(minimum int) Filter {
	return &minimumMatchFilter{minimum: minimum}
}

func (f *minimumMatchFilter) Name() string { return "minimum_match" }

func (f *minimumMatchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumMatchFilter) IsEnabled() bool { return f.minimum != 0 && !f.disabled }

func (f *minimumMatchFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match must be within [0, 100], got %d", f.minimum)
	}
	return nil
}

func (f *minimumMatchFilter) Apply(_ context.Context, items []matching.ScoredListing) ([]matching.ScoredListing, Step, error) {
	out, step := keep(items, func(item matching.ScoredListing) bool {
		return item.Percentage >= f.minimum
	})
	return out, step, nil
}

func (f *minimumMatchFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum": strconv.Itoa(f.minimum)},
	}
}
