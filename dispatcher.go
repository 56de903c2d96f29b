package motionlink

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JobSource is the remote register interface the dispatcher coordinates
// with. *Client implements it.
type JobSource interface {
	QueryVar(idx uint8) (int32, error)
	SetVar(idx uint8, val int64) error
}

// Executor performs the physical motion routine for a (job, slot) pair.
// ExecuteJob blocks until the motion completes and returns an error only
// when the motion cannot be performed; such errors are fatal to the run.
type Executor interface {
	ExecuteJob(ctx context.Context, index, slot int) error
}

// Gate values written to the gate register by the arming bracket.
const (
	gateOpen   = 1
	gateClosed = 0
)

// DispatcherConfig selects the remote registers the coordination protocol
// runs over and the poll cadence.
type DispatcherConfig struct {
	// FlagVar is the ready flag register: 0 means no work, non-zero means
	// a job is waiting.
	FlagVar uint8
	// JobVar is the register holding the pending job index.
	JobVar uint8
	// GateVar is the dispatch gate register, opened once at startup,
	// re-opened after every dispatch and closed at shutdown.
	GateVar uint8
	// PollInterval is the fixed wait between ready-flag polls.
	// Defaults to 500ms.
	PollInterval time.Duration
}

// DefaultPollInterval is the wait between ready-flag polls when the config
// leaves PollInterval zero.
const DefaultPollInterval = 500 * time.Millisecond

// Dispatcher drives the poll-and-dispatch loop: wait for the ready flag,
// fetch the job index, rotate the slot, run the motion job, re-arm, repeat.
// Everything is sequential; at most one command session is open at a time
// and at most one job runs at a time.
type Dispatcher struct {
	source JobSource
	exec   Executor
	slots  *SlotCounter
	config DispatcherConfig

	sleep func(time.Duration) // stubbed in tests
}

func NewDispatcher(source JobSource, exec Executor, config DispatcherConfig) *Dispatcher {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	return &Dispatcher{
		source: source,
		exec:   exec,
		slots:  NewSlotCounter(),
		config: config,
		sleep:  time.Sleep,
	}
}

// Run opens the dispatch gate, loops dispatch cycles until ctx is cancelled
// or an exchange fails, then closes the gate. Cancellation is honored only
// between command sessions; a session in flight always runs to completion
// or transport failure. The gate close runs on every exit path.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.source.SetVar(d.config.GateVar, gateOpen); err != nil {
		return fmt.Errorf("arm dispatch gate: %w", err)
	}
	l.Info("dispatch gate opened", zap.Uint8("gateVar", d.config.GateVar))

	defer func() {
		if err := d.source.SetVar(d.config.GateVar, gateClosed); err != nil {
			l.Error("close dispatch gate", zap.Error(err))
			return
		}
		l.Info("dispatch gate closed")
	}()

	for {
		if err := d.cycle(ctx); err != nil {
			return err
		}
	}
}

// cycle runs one pass of the state machine: Polling -> FetchingIndex ->
// Dispatching -> Rearming.
func (d *Dispatcher) cycle(ctx context.Context) error {
	if err := d.awaitWork(ctx); err != nil {
		return err
	}

	index, err := d.source.QueryVar(d.config.JobVar)
	if err != nil {
		return fmt.Errorf("fetch job index: %w", err)
	}

	slot := d.slots.Advance(int(index))
	l.Info("dispatching job", zap.Int32("job", index), zap.Int("slot", slot))
	if err := d.exec.ExecuteJob(ctx, int(index), slot); err != nil {
		return fmt.Errorf("execute job %d slot %d: %w", index, slot, err)
	}

	if err := d.source.SetVar(d.config.GateVar, gateOpen); err != nil {
		return fmt.Errorf("rearm dispatch gate: %w", err)
	}
	return nil
}

// awaitWork polls the ready flag at the fixed interval until it reads
// non-zero. A non-zero read exits immediately with no trailing wait. There
// is no retry limit; only cancellation or a failed exchange ends the wait.
func (d *Dispatcher) awaitWork(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		flag, err := d.source.QueryVar(d.config.FlagVar)
		if err != nil {
			return fmt.Errorf("poll ready flag: %w", err)
		}
		if flag != 0 {
			return nil
		}
		d.sleep(d.config.PollInterval)
	}
}
