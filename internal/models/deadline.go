package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sami157/dining-management/internal/types"
)

// DeadlinePolicy decides until when a member can create a new registration
// for a meal. Registration for date D closes at Cutoff o'clock on day
// D - DaysBefore, evaluated in Location.
//
// The policy only gates new registrations. Quantity updates and cancellation
// of existing registrations stay possible after the deadline, that asymmetry
// is a product rule.
type DeadlinePolicy struct {
	DaysBefore  int               // How many days before the meal date the cutoff applies
	Cutoff      string            // Cutoff clock time in "15:04" format
	TypeCutoffs map[string]string // Optional per meal type cutoff overrides
	Location    *time.Location    // Timezone the cutoff is evaluated in
}

// Deadline is the active registration deadline policy. Tests may replace it.
var Deadline = LoadDeadlinePolicy()

// LoadDeadlinePolicy builds the policy from the environment.
//
//   - REGISTRATION_CUTOFF: clock time, default "22:00"
//   - REGISTRATION_CUTOFF_DAYS: days before the meal date, default 1
//   - REGISTRATION_CUTOFF_<TYPE>: per meal type override, e.g.
//     REGISTRATION_CUTOFF_MORNING=20:00
//   - REGISTRATION_TIMEZONE: IANA name, default UTC
func LoadDeadlinePolicy() DeadlinePolicy {
	policy := DeadlinePolicy{
		DaysBefore:  1,
		Cutoff:      "22:00",
		TypeCutoffs: map[string]string{},
		Location:    time.UTC,
	}

	if cutoff, ok := os.LookupEnv("REGISTRATION_CUTOFF"); ok {
		policy.Cutoff = cutoff
	}

	if days, ok := os.LookupEnv("REGISTRATION_CUTOFF_DAYS"); ok {
		if parsed, err := strconv.Atoi(days); err == nil && parsed >= 0 {
			policy.DaysBefore = parsed
		}
	}

	for _, mealType := range MealTypes {
		env := fmt.Sprintf("REGISTRATION_CUTOFF_%s", strings.ToUpper(mealType))
		if cutoff, ok := os.LookupEnv(env); ok {
			policy.TypeCutoffs[mealType] = cutoff
		}
	}

	if name, ok := os.LookupEnv("REGISTRATION_TIMEZONE"); ok {
		if location, err := time.LoadLocation(name); err == nil {
			policy.Location = location
		}
	}

	return policy
}

// For returns the registration deadline for a meal on the given date.
func (p DeadlinePolicy) For(date types.Date, mealType string) time.Time {
	cutoff := p.Cutoff
	if override, ok := p.TypeCutoffs[mealType]; ok {
		cutoff = override
	}

	clock, err := time.Parse("15:04", cutoff)
	if err != nil {
		// An unparseable cutoff falls back to midnight of the meal date
		clock = time.Time{}
	}

	day := date.AddDays(-p.DaysBefore)
	year, month, dayOfMonth := time.Time(day).Date()
	return time.Date(year, month, dayOfMonth, clock.Hour(), clock.Minute(), 0, 0, p.Location)
}

// CanRegister reports whether a new registration for a meal on the given
// date is still possible at the instant now.
func (p DeadlinePolicy) CanRegister(date types.Date, mealType string, now time.Time) bool {
	return !now.After(p.For(date, mealType))
}
