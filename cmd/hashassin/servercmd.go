// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashassin/hashassin/client"
	"github.com/hashassin/hashassin/server"
)

// serverCmd implements the server command.
type serverCmd struct {
	Bind           string `long:"bind" description:"Address to listen on" default:"127.0.0.1"`
	Port           uint16 `long:"port" description:"TCP port to listen on" default:"2025"`
	ComputeThreads int    `long:"compute-threads" description:"Number of compute workers" default:"1"`
	AsyncThreads   int    `long:"async-threads" description:"Number of I/O workers" default:"1"`
	CacheSize      int32  `long:"cache-size" description:"Result cache budget in bytes (0 disables the cache)"`
	LogDir         string `long:"logdir" description:"Directory to write rotating log files in"`
	DebugLevel     string `long:"debuglevel" description:"Logging level (trace, debug, info, warn, error, critical)" default:"info"`
}

func (c *serverCmd) Execute(args []string) error {
	if c.Port == 0 {
		return usageErrorf("--port must not be zero")
	}
	if c.ComputeThreads < 1 {
		return usageErrorf("--compute-threads must be positive")
	}
	if c.AsyncThreads < 1 {
		return usageErrorf("--async-threads must be positive")
	}
	if c.CacheSize < 0 {
		return usageErrorf("--cache-size must not be negative")
	}

	if c.LogDir != "" {
		logFile := filepath.Join(c.LogDir, "hashassin.log")
		if err := initLogRotator(logFile); err != nil {
			return err
		}
	}
	setLogLevels(c.DebugLevel)

	srv := server.New(&server.Config{
		Bind:           c.Bind,
		Port:           c.Port,
		AsyncWorkers:   c.AsyncThreads,
		ComputeWorkers: c.ComputeThreads,
		CacheBudget:    int64(c.CacheSize),
	})
	if err := srv.Start(); err != nil {
		return err
	}

	// Block until the process is interrupted, then shut down cleanly.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	srv.Stop()
	return nil
}

// clientUploadCmd implements the client upload command.
type clientUploadCmd struct {
	Server string `long:"server" description:"Server address" default:"127.0.0.1:2025"`
	InFile string `long:"in-file" description:"Rainbow table file to upload" required:"true"`
	Name   string `long:"name" description:"Name to register the table under" required:"true"`
}

func (c *clientUploadCmd) Execute(args []string) error {
	tableBytes, err := os.ReadFile(c.InFile)
	if err != nil {
		return err
	}
	reply, err := client.Upload(c.Server, c.Name, tableBytes)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

// clientCrackCmd implements the client crack command.
type clientCrackCmd struct {
	Server  string `long:"server" description:"Server address" default:"127.0.0.1:2025"`
	InFile  string `long:"in-file" description:"Hashes file to submit" required:"true"`
	OutFile string `long:"out-file" description:"Write recovered pairs to this file instead of stdout"`
}

func (c *clientCrackCmd) Execute(args []string) error {
	hashesBytes, err := os.ReadFile(c.InFile)
	if err != nil {
		return err
	}
	pairs, err := client.Crack(c.Server, hashesBytes)
	if err != nil {
		return err
	}

	out, closeOut, err := outputWriter(c.OutFile)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	for _, pair := range pairs {
		fmt.Fprintf(bw, "%s\t%s\n", hex.EncodeToString(pair.Hash),
			pair.Password)
	}
	if err := bw.Flush(); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
