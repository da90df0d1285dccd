// Package gamification maps academy points to levels.
package gamification

import (
	"errors"
	"fmt"
)

// MaxLevelTitle is the title of the sentinel returned as next level once the last level is reached.
const MaxLevelTitle = "Max Level"

var (
	// ErrEmptyTable is returned for a level table without entries.
	ErrEmptyTable = errors.New("level table is empty")
	// ErrFirstThreshold is returned when the first level is not attainable with zero points.
	ErrFirstThreshold = errors.New("first level threshold must be 0")
	// ErrThresholdOrder is returned when thresholds or levels are not strictly increasing.
	ErrThresholdOrder = errors.New("level thresholds must be strictly increasing")
)

// Level is one row of the level table.
type Level struct {
	Level       int    `json:"level"        mapstructure:"level"`
	XPThreshold int64  `json:"xp_threshold" mapstructure:"xp"`
	Title       string `json:"title"        mapstructure:"title"`
	// Infinite marks the sentinel that follows the last level.
	Infinite bool `json:"infinite,omitempty" mapstructure:"-"`
}

// Result is the level information for a point total.
type Result struct {
	Points   int64   `json:"points"`
	Current  Level   `json:"current"`
	Next     Level   `json:"next"`
	Progress float64 `json:"progress"`
	MaxLevel bool    `json:"max_level"`
}

// Table is an ordered level table. Use NewTable to build one.
type Table struct {
	levels []Level
}

// DefaultLevels is the academy level table used unless configured otherwise.
func DefaultLevels() []Level {
	return []Level{
		{Level: 1, XPThreshold: 0, Title: "Iniciante"},
		{Level: 2, XPThreshold: 500, Title: "Aprendiz"},
		{Level: 3, XPThreshold: 1500, Title: "Especialista"},
		{Level: 4, XPThreshold: 3000, Title: "Mestre"},
		{Level: 5, XPThreshold: 5000, Title: "Lenda"},
	}
}

// DefaultTable returns the table built from DefaultLevels.
func DefaultTable() Table {
	return Table{levels: DefaultLevels()}
}

// NewTable validates levels and returns a Table over a copy of them.
func NewTable(levels []Level) (Table, error) {
	if len(levels) == 0 {
		return Table{}, ErrEmptyTable
	}

	if levels[0].XPThreshold != 0 {
		return Table{}, ErrFirstThreshold
	}

	for i := 1; i < len(levels); i++ {
		if levels[i].XPThreshold <= levels[i-1].XPThreshold || levels[i].Level <= levels[i-1].Level {
			return Table{}, fmt.Errorf("%w: level %d (%d xp) follows level %d (%d xp)", ErrThresholdOrder,
				levels[i].Level, levels[i].XPThreshold, levels[i-1].Level, levels[i-1].XPThreshold)
		}
	}

	return Table{levels: append([]Level(nil), levels...)}, nil
}

// Levels returns a copy of the table rows.
func (t Table) Levels() []Level {
	return append([]Level(nil), t.levels...)
}

// ComputeLevel returns the highest level whose threshold is at most points and the level after it.
// A threshold equal to points counts as reached. Negative points behave like zero.
func (t Table) ComputeLevel(points int64) Result {
	levels := t.levels
	if len(levels) == 0 {
		levels = DefaultLevels()
	}

	current := 0
	for i, level := range levels {
		if level.XPThreshold > points {
			break
		}

		current = i
	}

	result := Result{
		Points:  points,
		Current: levels[current],
	}

	if current+1 < len(levels) {
		result.Next = levels[current+1]
	} else {
		result.Next = Level{Level: levels[current].Level, Title: MaxLevelTitle, Infinite: true}
		result.MaxLevel = true
	}

	result.Progress = ComputeProgress(points, result.Next)

	return result
}

// ComputeProgress returns points as a percentage of the next threshold, clamped to [0, 100].
// The max level sentinel always yields 0; callers show a max level state instead.
func ComputeProgress(points int64, next Level) float64 {
	if next.Infinite || next.XPThreshold <= 0 {
		return 0
	}

	percent := float64(points) / float64(next.XPThreshold) * 100 //nolint:mnd

	switch {
	case percent < 0:
		return 0
	case percent > 100: //nolint:mnd
		return 100
	default:
		return percent
	}
}
