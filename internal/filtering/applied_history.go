package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/matching"
)

type appliedHistoryFilter struct {
	enabled bool
	reason  string
	applied map[int]struct{}
	logger  *zap.Logger
}

// NewAppliedHistory creates a filter that removes listings the user already applied to.
// It starts disabled unless hide is set: the page itself always shows them.
func NewAppliedHistory(hide bool, appliedIDs []int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	applied := make(map[int]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = struct{}{}
	}

	f := &appliedHistoryFilter{enabled: hide, applied: applied, logger: logger}
	if !hide {
		f.reason = "applied listings are shown"
	}
	return f
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *appliedHistoryFilter) IsEnabled() bool { return f.enabled }

func (f *appliedHistoryFilter) Validate() error { return nil }

func (f *appliedHistoryFilter) Apply(_ context.Context, items []matching.ScoredListing) ([]matching.ScoredListing, Step, error) {
	excluded := make([]int, 0)
	out, step := keep(items, func(item matching.ScoredListing) bool {
		if _, ok := f.applied[item.ID]; ok {
			excluded = append(excluded, item.ID)
			return false
		}
		return true
	})

	if len(excluded) > 0 {
		f.logger.Info("excluding listings based on my applications",
			zap.Ints("excluded_listings", excluded),
			zap.Int("listings_left", step.Left),
		)
	}

	return out, step, nil
}

func (f *appliedHistoryFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"applied": strconv.Itoa(len(f.applied))},
	}
}
