// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package lifecycle coordinates process shutdown for long-running ferret
// modes (serve, watch). Hooks registered here run on SIGTERM/SIGINT in
// reverse registration order, so resources unwind in the opposite order
// they were acquired.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ferrostor/ferret/pkg/errors"
)

var (
	shutdownHooks []func()
	cancel        context.CancelFunc
)

func RegisterShutdownHook(hook func()) {
	shutdownHooks = append(shutdownHooks, hook)
}

func RegisterContextCanceller(c context.CancelFunc) {
	cancel = c
}

// HandleSignals blocks until the context is cancelled or a termination
// signal arrives. SIGHUP is acknowledged but configuration is fixed for
// the life of the process, so it only logs.
func HandleSignals(ctx context.Context) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

	for {
		select {
		case sig := <-stop:
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT:
				shutdown()
				return
			case syscall.SIGHUP:
				reload()
			}
		case <-ctx.Done():
			return
		}
	}
}

func shutdown() {
	// Cancel context first so in-flight work observes it before hooks
	// start tearing resources down.
	if cancel != nil {
		cancel()
	}
	for i := len(shutdownHooks) - 1; i >= 0; i-- {
		shutdownHooks[i]()
	}
	os.Exit(0)
}

func reload() {
	fmt.Println("Configuration is read at startup; restart to apply changes")
}

// EnsureSingleInstance guards against concurrent daemons via a PID file.
// A stale file left by a dead process is removed and replaced.
func EnsureSingleInstance(pidPath string) error {
	if pidPath == "" {
		return errors.New(errors.FerretMisc, "pid file path is empty")
	}

	if _, err := os.Stat(pidPath); err == nil {
		pidBytes, err := os.ReadFile(pidPath)
		if err != nil {
			return errors.Wrap(err, errors.FerretMisc)
		}

		content := strings.TrimSpace(string(pidBytes))
		if content == "" {
			os.Remove(pidPath)
		} else {
			pid, err := strconv.Atoi(content)
			if err != nil {
				return errors.New(errors.FerretMisc,
					fmt.Sprintf("pid file %s is malformed: %q", pidPath, content))
			}

			process, err := os.FindProcess(pid)
			if err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					return errors.New(errors.FerretMisc,
						fmt.Sprintf("another instance is already running (pid %d)", pid))
				}
			}
			// Process not running, remove stale PID file
			os.Remove(pidPath)
		}
	}

	currentPid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(currentPid)), 0644); err != nil {
		return errors.Wrap(err, errors.FerretMisc)
	}

	RegisterShutdownHook(func() {
		os.Remove(pidPath)
	})

	return nil
}
