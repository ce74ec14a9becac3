// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// hashassin is a rainbow-table password cracking toolkit: it generates
// random passwords, hashes them, builds rainbow tables, cracks hashes
// locally, and hosts uploaded tables behind a TCP cracking service.
package main

import (
	"errors"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
)

// Exit codes returned by the program.
const (
	exitSuccess  = 0
	exitArgError = 1
	exitRunError = 2
)

// usageError marks a failure caused by invalid arguments rather than by the
// work itself, so main can map it to the argument-error exit code.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

// usageErrorf creates a usageError given a format and arguments.
func usageErrorf(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	os.Exit(realMain())
}

// realMain parses the command line, dispatches to the selected subcommand
// and converts failures to exit codes.
func realMain() int {
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	parser := flags.NewNamedParser("hashassin",
		flags.HelpFlag|flags.PassDoubleDash)

	register := func(name, short string, data interface{}) {
		if _, err := parser.AddCommand(name, short, short, data); err != nil {
			panic(fmt.Sprintf("failed to register %s command: %v", name, err))
		}
	}
	register("gen-passwords", "Generate random printable-ASCII passwords",
		&genPasswordsCmd{})
	register("gen-hashes", "Hash a password list into a hashes file",
		&genHashesCmd{})
	register("dump-hashes", "Print a hashes file in text form",
		&dumpHashesCmd{})
	register("gen-rainbow-table", "Build a rainbow table from a password list",
		&genRainbowTableCmd{})
	register("dump-rainbow-table", "Print a rainbow table file in text form",
		&dumpRainbowTableCmd{})
	register("crack", "Recover plaintexts from a hashes file with a table",
		&crackCmd{})
	register("server", "Serve uploaded rainbow tables over TCP",
		&serverCmd{})

	clientCmd, err := parser.AddCommand("client",
		"Talk to a hashassin server", "Talk to a hashassin server",
		&struct{}{})
	if err != nil {
		panic(fmt.Sprintf("failed to register client command: %v", err))
	}
	if _, err := clientCmd.AddCommand("upload",
		"Upload a rainbow table to a server",
		"Upload a rainbow table to a server", &clientUploadCmd{}); err != nil {
		panic(fmt.Sprintf("failed to register client upload command: %v", err))
	}
	if _, err := clientCmd.AddCommand("crack",
		"Submit a hashes file to a server for cracking",
		"Submit a hashes file to a server for cracking",
		&clientCrackCmd{}); err != nil {
		panic(fmt.Sprintf("failed to register client crack command: %v", err))
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				fmt.Fprintln(os.Stdout, err)
				return exitSuccess
			}
			fmt.Fprintln(os.Stderr, err)
			return exitArgError
		}

		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "hashassin: %v\n", err)
			return exitArgError
		}

		fmt.Fprintf(os.Stderr, "hashassin: %v\n", err)
		return exitRunError
	}
	return exitSuccess
}

// outputWriter opens path for atomic-free text output, or returns standard
// output when path is empty.  The returned cleanup closes the file when one
// was opened.
func outputWriter(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
