// Command varserverd runs the register server side of the protocol: a
// fixed table of int32 registers served over 8-byte frames. Job sources
// (vision, web UI) set the ready flag and job index here; the coordinator
// polls them.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/jwvf/motionlink"
)

type Options struct {
	Listen string `long:"listen" default:"0.0.0.0:1400" description:"Listen address"`
	Size   int    `long:"size" default:"100" description:"Number of registers"`
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

	if opts.Size < 1 || opts.Size > 256 {
		logger.Fatal("register count must be within [1,256]", zap.Int("size", opts.Size))
	}

	table := motionlink.NewVarTable(opts.Size)
	table.OnChange = func(idx uint8, val int32) {
		logger.Info("register changed", zap.Uint8("register", idx), zap.Int32("value", val))
	}

	s, err := motionlink.ListenTCP(opts.Listen)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
	s.Serve(&motionlink.VarTableHandler{Table: table})
	logger.Info("register server up", zap.String("listen", opts.Listen), zap.Int("registers", opts.Size))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	if err := s.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("register server down")
}
