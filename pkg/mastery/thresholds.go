package mastery

import (
	"errors"
	"fmt"
)

var ErrInvalidThresholds = errors.New("invalid mastery thresholds")

// Thresholds[i] is the usage count needed for level i.
type Thresholds []int

func DefaultThresholds() Thresholds {
	return Thresholds{0, 5, 15, 30, 50, 100}
}

// Validate requires a non-empty, strictly ascending table starting at 0.
func (t Thresholds) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty table", ErrInvalidThresholds)
	}
	if t[0] != 0 {
		return fmt.Errorf("%w: level 0 must start at 0, got %d", ErrInvalidThresholds, t[0])
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return fmt.Errorf("%w: level %d threshold %d is not above %d", ErrInvalidThresholds, i, t[i], t[i-1])
		}
	}
	return nil
}

func (t Thresholds) MaxLevel() int {
	return len(t) - 1
}

// LevelFor returns the highest level whose threshold usage reaches.
func (t Thresholds) LevelFor(usage int) int {
	level := 0
	for i, need := range t {
		if usage >= need {
			level = i
		}
	}
	return level
}

// Progress is the fraction of the way from level's threshold to the next one.
// At max level it is 1.
func (t Thresholds) Progress(level, usage int) float64 {
	if level >= t.MaxLevel() {
		return 1
	}
	lo, hi := t[level], t[level+1]
	p := float64(usage-lo) / float64(hi-lo)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
