package pipeline

import (
	"errors"
	"fmt"

	"github.com/geofetch/geofetch/internal/regions"
)

// Frequency is the temporal granularity of a run.
type Frequency string

const (
	// Yearly produces one composite per region-year (or one unfiltered
	// composite per region when no years are given).
	Yearly Frequency = "yearly"

	// Monthly produces up to twelve composites per region-year.
	Monthly Frequency = "monthly"

	// MonthlyMosaic combines the twelve monthly composites into one
	// artifact per region-year.
	MonthlyMosaic Frequency = "monthly_mosaic"
)

// ErrUnsupportedFrequency is returned for frequency strings outside the
// supported set. It is a configuration error: no tasks are scheduled
// and no filesystem writes happen.
var ErrUnsupportedFrequency = errors.New("pipeline: unsupported frequency")

// ParseFrequency validates a frequency string.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Yearly, Monthly, MonthlyMosaic:
		return Frequency(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
	}
}

// Task is one independent unit of work: a region paired with an
// optional year. Year 0 means no time filtering.
type Task struct {
	Region regions.Region
	Year   int
}

// HasYear reports whether the task carries a year filter.
func (t Task) HasYear() bool { return t.Year != 0 }

// Enumerate expands regions and years into the flat task set: one task
// per (region, year) pair, or one per region when no years are given.
func Enumerate(regs []regions.Region, years []int) []Task {
	if len(years) == 0 {
		tasks := make([]Task, len(regs))
		for i, r := range regs {
			tasks[i] = Task{Region: r}
		}
		return tasks
	}

	tasks := make([]Task, 0, len(regs)*len(years))
	for _, r := range regs {
		for _, y := range years {
			tasks = append(tasks, Task{Region: r, Year: y})
		}
	}
	return tasks
}
