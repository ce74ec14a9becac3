// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/hashassin/hashassin/client"
	"github.com/hashassin/hashassin/server"
	"github.com/hashassin/hashassin/worker"
)

// logWriter implements an io.Writer that outputs to standard error and
// writes to a rotating log file when one has been initialized.  Log output
// stays off standard output so the data-emitting commands can pipe cleanly.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	srvrLog = backendLog.Logger("SRVR")
	workLog = backendLog.Logger("WORK")
	clntLog = backendLog.Logger("CLNT")
)

// Initialize package-global logger variables.
func init() {
	server.UseLogger(srvrLog)
	worker.UseLogger(workLog)
	client.UseLogger(clntLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"SRVR": srvrLog,
	"WORK": workLog,
	"CLNT": clntLog,
}

// initLogRotator initializes the logging rotator to write logs to logFile
// and create roll files in the same directory.  It must be called before
// the package-global log rotator variable is used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.  Invalid levels are ignored in favor of the default.
func setLogLevels(levelStr string) {
	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		return
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
