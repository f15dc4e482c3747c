// Package matching scores listings against a student profile.
//
// The score is a weighted sum out of 100:
//
//	course  40  exact course, 20 for a related course
//	period  20  profile period reaches the minimum, 10 when one short
//	areas   40  share of the listing's areas the profile is interested in
//
// Rounding happens once, on the total.
package matching

import (
	"math"
	"slices"

	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/profile"
)

const (
	CourseWeight        = 40
	RelatedCourseWeight = 20
	PeriodWeight        = 20
	NearPeriodWeight    = 10
	AreaWeight          = 40

	maxScore = CourseWeight + PeriodWeight + AreaWeight

	HighThreshold   = 70
	MediumThreshold = 40
)

type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// TierFor maps a percentage onto its tier; lower bounds are inclusive.
func TierFor(percentage int) Tier {
	switch {
	case percentage >= HighThreshold:
		return TierHigh
	case percentage >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Breakdown keeps the per-factor points behind a percentage.
type Breakdown struct {
	Course     int
	Period     int
	Area       float64
	Percentage int
}

// Evaluate computes the factors and the final percentage. A profile without
// course, period or interest areas scores zero on every factor.
func Evaluate(p profile.Profile, l *listing.Listing) Breakdown {
	if l == nil || !p.CanScore() {
		return Breakdown{}
	}

	b := Breakdown{
		Course: courseScore(p.Course, l.Courses),
		Period: periodScore(p.Period, l.MinimumPeriod),
		Area:   areaScore(p, l.Areas),
	}

	total := float64(b.Course+b.Period) + b.Area
	b.Percentage = roundHalfUp(100 * total / maxScore)
	b.Percentage = max(0, min(100, b.Percentage))

	return b
}

// Score returns the match percentage in [0, 100]. It is a pure function of its inputs.
func Score(p profile.Profile, l *listing.Listing) int {
	return Evaluate(p, l).Percentage
}

func courseScore(course string, courses []string) int {
	canonical := CanonicalCourse(course)

	listed := make([]string, 0, len(courses))
	for _, c := range courses {
		if c == course {
			return CourseWeight
		}
		listed = append(listed, CanonicalCourse(c))
	}

	if slices.Contains(listed, canonical) {
		return CourseWeight
	}

	for _, related := range RelatedCourses(canonical) {
		if slices.Contains(listed, related) {
			return RelatedCourseWeight
		}
	}

	return 0
}

func periodScore(period, minimum int) int {
	if period >= minimum {
		return PeriodWeight
	}
	if minimum-period == 1 {
		return NearPeriodWeight
	}
	return 0
}

func areaScore(p profile.Profile, areas []string) float64 {
	if len(areas) == 0 {
		return 0
	}

	matched := 0
	for _, area := range areas {
		if p.HasInterest(area) {
			matched++
		}
	}

	return float64(AreaWeight*matched) / float64(len(areas))
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
