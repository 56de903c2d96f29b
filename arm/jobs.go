package arm

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Pose is a set of normalized joint targets in [-100, 100].
type Pose map[Joint]float64

// Routine is one pre-programmed motion: a named sequence of poses walked
// in order, pausing SettleMillis after each move.
type Routine struct {
	Name         string `json:"name"`
	Poses        []Pose `json:"poses"`
	SettleMillis int    `json:"settle_ms"`
}

func (r Routine) settle() time.Duration {
	return time.Duration(r.SettleMillis) * time.Millisecond
}

// JobSet maps a job index to its slot variants. Successive dispatches of
// the same job receive rotating slots, so listing multiple variants makes
// the cell alternate between equivalent routines (three pick positions on
// a tray, for instance).
type JobSet map[int][]Routine

// LoadJobSet reads a job set from a JSON file keyed by job index.
func LoadJobSet(path string) (JobSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var raw map[string][]Routine
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse jobs JSON: %w", err)
	}

	js := make(JobSet, len(raw))
	for key, routines := range raw {
		var index int
		if _, err := fmt.Sscanf(key, "%d", &index); err != nil {
			return nil, fmt.Errorf("job key %q is not an index", key)
		}
		if index < 0 {
			return nil, fmt.Errorf("job index %d is negative", index)
		}
		if len(routines) == 0 {
			return nil, fmt.Errorf("job %d has no routines", index)
		}
		for _, r := range routines {
			if len(r.Poses) == 0 {
				return nil, fmt.Errorf("job %d routine %q has no poses", index, r.Name)
			}
		}
		js[index] = routines
	}
	return js, nil
}

// Routine picks the variant for a (index, slot) pair. Slots beyond the
// defined variants wrap, so a job with a single routine plays it on every
// slot.
func (js JobSet) Routine(index, slot int) (Routine, error) {
	variants, ok := js[index]
	if !ok {
		return Routine{}, fmt.Errorf("no routine for job %d", index)
	}
	if slot < 0 {
		return Routine{}, fmt.Errorf("negative slot %d", slot)
	}
	return variants[slot%len(variants)], nil
}
