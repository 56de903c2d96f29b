// Command motiond runs the cell coordinator: it polls the register server
// for pending jobs and plays the matching motion routine on the arm.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/jwvf/motionlink"
	"github.com/jwvf/motionlink/arm"
)

type Options struct {
	Addr         string `long:"addr" default:"127.0.0.1:1400" description:"Register server address"`
	PollInterval int    `long:"poll-ms" default:"500" description:"Ready flag poll interval in milliseconds"`

	FlagVar uint8 `long:"flag-var" default:"10" description:"Ready flag register"`
	JobVar  uint8 `long:"job-var" default:"11" description:"Job index register"`
	GateVar uint8 `long:"gate-var" default:"12" description:"Dispatch gate register"`

	Port        string `long:"port" description:"Serial port of the servo bus (omit for dry run)"`
	Calibration string `long:"calibration" default:"calibration.json" description:"Joint calibration file"`
	Jobs        string `long:"jobs" default:"jobs.json" description:"Motion routine file"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	motionlink.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exec, cleanup, err := buildExecutor(ctx, opts, logger)
	if err != nil {
		logger.Fatal("executor setup", zap.Error(err))
	}
	defer cleanup()

	d := motionlink.NewDispatcher(
		motionlink.NewClient(opts.Addr),
		exec,
		motionlink.DispatcherConfig{
			FlagVar:      opts.FlagVar,
			JobVar:       opts.JobVar,
			GateVar:      opts.GateVar,
			PollInterval: time.Duration(opts.PollInterval) * time.Millisecond,
		},
	)

	logger.Info("coordinator starting", zap.String("addr", opts.Addr))
	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("coordinator stopped", zap.Error(err))
	}
	logger.Info("coordinator stopped")
}

func buildExecutor(ctx context.Context, opts Options, logger *zap.Logger) (motionlink.Executor, func(), error) {
	if opts.Port == "" {
		logger.Info("no serial port given, running dry")
		return dryExecutor{logger: logger}, func() {}, nil
	}

	cal, err := arm.LoadCalibration(opts.Calibration)
	if err != nil {
		return nil, nil, err
	}
	jobs, err := arm.LoadJobSet(opts.Jobs)
	if err != nil {
		return nil, nil, err
	}

	a, err := arm.Open(ctx, opts.Port, cal, jobs)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Error("arm close", zap.Error(err))
		}
	}
	return a, cleanup, nil
}

// dryExecutor logs jobs instead of moving anything.
type dryExecutor struct {
	logger *zap.Logger
}

func (e dryExecutor) ExecuteJob(_ context.Context, index, slot int) error {
	e.logger.Info("dry run job", zap.Int("job", index), zap.Int("slot", slot))
	return nil
}
