// Package arm executes pre-programmed motion routines on a feetech servo
// arm. It provides the motion-job executor the dispatcher drives: a job
// index selects a routine, the slot selects among its variants.
package arm

import (
	"context"
	"fmt"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Arm drives the cell's servos over a serial bus and plays routines from a
// JobSet.
type Arm struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration
	jobs        JobSet
}

// Open connects to the servo bus and enables torque on all calibrated
// joints.
func Open(ctx context.Context, port string, cal Calibration, jobs JobSet) (*Arm, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, cal.ServoIDs()...)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("enable torque: %w", err)
	}

	return &Arm{
		bus:         bus,
		group:       group,
		calibration: cal,
		jobs:        jobs,
	}, nil
}

// Close disables torque and closes the bus.
func (a *Arm) Close() error {
	if err := a.group.DisableAll(context.Background()); err != nil {
		a.bus.Close()
		return fmt.Errorf("disable torque: %w", err)
	}
	return a.bus.Close()
}

// ExecuteJob plays the routine variant for (index, slot), blocking until
// the last pose has settled. It implements motionlink.Executor.
func (a *Arm) ExecuteJob(ctx context.Context, index, slot int) error {
	routine, err := a.jobs.Routine(index, slot)
	if err != nil {
		return err
	}

	for i, pose := range routine.Poses {
		if err := a.MoveTo(ctx, pose); err != nil {
			return fmt.Errorf("routine %q pose %d: %w", routine.Name, i, err)
		}
		if err := settleWait(ctx, routine.settle()); err != nil {
			return err
		}
	}
	return nil
}

// MoveTo writes one pose to all its joints in a single sync write.
func (a *Arm) MoveTo(ctx context.Context, pose Pose) error {
	raw := make(feetech.PositionMap, len(pose))
	for joint, norm := range pose {
		cal, ok := a.calibration[joint]
		if !ok {
			return fmt.Errorf("pose names uncalibrated joint %q", joint)
		}
		raw[cal.ID] = cal.Denormalize(norm)
	}

	if err := a.group.SetPositions(ctx, raw); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	return nil
}

func settleWait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
