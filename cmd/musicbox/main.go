// ABOUTME: Entry point for the music box audio service
// ABOUTME: Parses CLI flags, loads the configuration and runs the service
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/musicbox-go/internal/config"
	mlog "github.com/Resonate-Protocol/musicbox-go/internal/log"
	"github.com/Resonate-Protocol/musicbox-go/internal/service"
	"github.com/Resonate-Protocol/musicbox-go/internal/trigger"
	"github.com/Resonate-Protocol/musicbox-go/internal/ui"
	"github.com/Resonate-Protocol/musicbox-go/internal/version"
)

var (
	configPath  = flag.String("config", config.DefaultPath, "Configuration file")
	logFile     = flag.String("log-file", "", "Log file path (default: stderr only)")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return service.ExitOK
	}

	useTUI := !*noTUI

	// Set up logging
	var out io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "musicbox: error opening log file: %v\n", err)
			return service.ExitResource
		}
		defer func() { _ = f.Close() }()

		if useTUI {
			// TUI mode: log only to file
			out = f
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	} else if useTUI {
		out = io.Discard
	}
	logger := mlog.NewWithOutput(out, *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fail(logger, service.ConfigError("load config", err))
	}
	logger.WithField("config", *configPath).Infof("Starting %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := service.Options{Config: cfg, Logger: logger}

	var tui *ui.TUI
	if useTUI {
		tui = ui.New()
		opts.StatusInterval = 250 * time.Millisecond
		opts.OnStatus = tui.Update
	}

	svc, err := service.Open(opts)
	if err != nil {
		return fail(logger, err)
	}

	tuiDone := make(chan struct{})
	if tui != nil {
		go func() {
			defer close(tuiDone)
			if err := tui.Run(); err != nil {
				logger.WithError(err).Error("TUI failed")
			}
			// leaving the TUI stops the service
			stop()
		}()

		go func() {
			controls := tui.Controls()
			for {
				select {
				case <-controls.Triggers:
					svc.Trigger()
				case <-controls.Quit:
					stop()
				case <-ctx.Done():
					return
				}
			}
		}()

		tui.Update(svc.Status())
	} else {
		close(tuiDone)
	}

	runErr := svc.Run(ctx)

	if tui != nil {
		tui.Stop()
		<-tuiDone
	}

	if err := svc.Close(); err != nil {
		logger.WithError(err).Warn("Shutdown incomplete")
	}
	trigger.CloseDrivers()

	if runErr != nil {
		return fail(logger, runErr)
	}
	logger.Info("Shutdown complete")
	return service.ExitOK
}

// fail logs err and reports it on stderr, which stays visible in TUI mode
func fail(logger interface{ Error(...interface{}) }, err error) int {
	logger.Error(err)
	fmt.Fprintf(os.Stderr, "musicbox: %v\n", err)
	return service.ExitCode(err)
}
