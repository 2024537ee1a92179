// internal/ranking/timeofday.go
package ranking

import "time"

// Meal periods used for best-times alignment.
const (
	PeriodBreakfast = "breakfast"
	PeriodLunch     = "lunch"
	PeriodDinner    = "dinner"
	PeriodLateNight = "late_night"
)

var chicago = loadChicago()

func loadChicago() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		// CST without DST is close enough when tzdata is unavailable
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// MealPeriod buckets a timestamp into the local service period.
func MealPeriod(t time.Time) string {
	hour := t.In(chicago).Hour()
	switch {
	case hour >= 6 && hour < 11:
		return PeriodBreakfast
	case hour >= 11 && hour < 15:
		return PeriodLunch
	case hour >= 15 && hour < 21:
		return PeriodDinner
	default:
		return PeriodLateNight
	}
}
