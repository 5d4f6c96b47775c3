package pipeline

import (
	"fmt"
	"time"
)

// YearWindow returns the inclusive [Jan 1, Dec 31] range of a year.
func YearWindow(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// MonthWindow returns the inclusive [first day, last day] range of a
// calendar month. Day 0 of the following month normalizes to the last
// day, so leap Februaries come out right.
func MonthWindow(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return start, end
}

// YearSuffix is the time suffix of a yearly artifact: "2021", or the
// empty string when the run has no year filter.
func YearSuffix(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

// MonthSuffix is the time suffix of a monthly artifact: "2021_03".
func MonthSuffix(year int, month time.Month) string {
	return fmt.Sprintf("%d_%02d", year, int(month))
}

// MonthlyMosaicSuffix is the time suffix of a combined-months artifact:
// "2021_monthly_mosaic".
func MonthlyMosaicSuffix(year int) string {
	return fmt.Sprintf("%d_monthly_mosaic", year)
}
