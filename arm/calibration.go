package arm

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Joint identifies one servo of the cell's arm by name.
type Joint string

// JointCalibration maps a joint's normalized pose space onto raw servo
// ticks.
type JointCalibration struct {
	ID       int `json:"id"`
	RangeMin int `json:"range_min"`
	RangeMax int `json:"range_max"`
}

// Calibration holds per-joint servo calibration, keyed by joint name.
type Calibration map[Joint]JointCalibration

// LoadCalibration reads calibration from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var raw map[string]JointCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, jc := range raw {
		cal[Joint(name)] = jc
	}
	if len(cal) == 0 {
		return nil, fmt.Errorf("calibration file %s has no joints", path)
	}
	return cal, nil
}

// Denormalize converts a normalized position [-100, 100] to raw servo
// ticks.
func (c JointCalibration) Denormalize(norm float64) int {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int((norm+100)/200*rangeSize) + c.RangeMin
}

// Normalize converts raw servo ticks to a normalized position [-100, 100].
func (c JointCalibration) Normalize(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	return (float64(raw-c.RangeMin)/rangeSize)*200 - 100
}

// ServoIDs returns the servo IDs of all calibrated joints in ascending
// order.
func (c Calibration) ServoIDs() []int {
	ids := make([]int, 0, len(c))
	for _, jc := range c {
		ids = append(ids, jc.ID)
	}
	sort.Ints(ids)
	return ids
}
