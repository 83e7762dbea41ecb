// Copyright (c) 2025-2026 The Ember developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/emberchain/emberd/generator"
	"github.com/emberchain/emberd/internal/apiserver"
	"github.com/emberchain/emberd/mining"
	"github.com/emberchain/emberd/netsync"
	"github.com/emberchain/emberd/peer"
)

// logWriter implements an io.Writer that outputs to both standard output
// and the write-end pipe of an initialized log rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem.  A single backend logger is created and all
// subsystem loggers created from it will write to the backend.  When
// adding new subsystems, add the subsystem logger variable here and to
// the subsystemLoggers map.
//
// Loggers always write to standard output.  They additionally write to a
// rotated log file once initLogRotator has been called, which happens early
// during application startup when a log directory is configured.
var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.  It writes to standard output and, while no log rotator
	// has been initialized, to nothing else.
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	embrLog = backendLog.Logger("EMBR")
	srvrLog = backendLog.Logger("SRVR")
	peerLog = backendLog.Logger("PEER")
	syncLog = backendLog.Logger("SYNC")
	minrLog = backendLog.Logger("MINR")
	genrLog = backendLog.Logger("GENR")
	apisLog = backendLog.Logger("APIS")
)

// Initialize package-global logger variables.
func init() {
	peer.UseLogger(peerLog)
	netsync.UseLogger(syncLog)
	mining.UseLogger(minrLog)
	generator.UseLogger(genrLog)
	apiserver.UseLogger(apisLog)
}

// subsystemLoggers maps each subsystem identifier to its associated
// logger.
var subsystemLoggers = map[string]slog.Logger{
	"EMBR": embrLog,
	"SRVR": srvrLog,
	"PEER": peerLog,
	"SYNC": syncLog,
	"MINR": minrLog,
	"GENR": genrLog,
	"APIS": apisLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile
// and create roll files in the same directory.  It must be called before
// the package-global log rotater variables are used.
func initLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}

	logRotator = r
}

// setLogLevels sets the log level for all subsystem loggers.
func setLogLevels(level slog.Level) {
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}

// verbosityLevel maps the count of -v flags to a log level: info by
// default, debug for -v, and trace for -vv and beyond.
func verbosityLevel(verbose int) slog.Level {
	switch {
	case verbose <= 0:
		return slog.LevelInfo
	case verbose == 1:
		return slog.LevelDebug
	default:
		return slog.LevelTrace
	}
}
