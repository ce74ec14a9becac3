// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/internal/atomicfile"
	"github.com/hashassin/hashassin/passgen"
	"github.com/hashassin/hashassin/rainbow"
	"github.com/hashassin/hashassin/worker"
)

// genPasswordsCmd implements the gen-passwords command.
type genPasswordsCmd struct {
	Chars   uint8  `long:"chars" description:"Password length in characters" default:"4"`
	Num     uint64 `long:"num" description:"Number of passwords to generate" required:"true"`
	Threads int    `long:"threads" description:"Number of generator workers" default:"1"`
	OutFile string `long:"out-file" description:"Write passwords to this file instead of stdout"`
}

func (c *genPasswordsCmd) Execute(args []string) error {
	if c.Chars == 0 {
		return usageErrorf("--chars must be positive")
	}
	if c.Num == 0 {
		return usageErrorf("--num must be positive")
	}
	if c.Threads < 1 {
		return usageErrorf("--threads must be positive")
	}

	passwords, err := passgen.Generate(int(c.Num), int(c.Chars), c.Threads)
	if err != nil {
		return err
	}

	if c.OutFile != "" {
		return atomicfile.Write(c.OutFile, func(w io.Writer) error {
			return passgen.WritePasswords(w, passwords)
		})
	}
	return passgen.WritePasswords(os.Stdout, passwords)
}

// genHashesCmd implements the gen-hashes command.
type genHashesCmd struct {
	InFile    string `long:"in-file" description:"Password list to hash" required:"true"`
	OutFile   string `long:"out-file" description:"Hashes file to write" required:"true"`
	Threads   int    `long:"threads" description:"Number of hashing workers" default:"1"`
	Algorithm string `long:"algorithm" description:"Hash algorithm (md5, sha256, sha3_512, scrypt)" required:"true"`
}

func (c *genHashesCmd) Execute(args []string) error {
	if c.Threads < 1 {
		return usageErrorf("--threads must be positive")
	}
	algo, err := hashes.AlgorithmFromString(c.Algorithm)
	if err != nil {
		return usageErrorf("unknown algorithm %q", c.Algorithm)
	}

	passwords, err := readPasswordFile(c.InFile)
	if err != nil {
		return err
	}

	digests, err := hashes.HashPasswords(algo, passwords, c.Threads)
	if err != nil {
		return err
	}
	file, err := hashes.NewFile(algo, len(passwords[0]), digests)
	if err != nil {
		return err
	}
	return atomicfile.Write(c.OutFile, file.Serialize)
}

// dumpHashesCmd implements the dump-hashes command.
type dumpHashesCmd struct {
	InFile string `long:"in-file" description:"Hashes file to dump" required:"true"`
}

func (c *dumpHashesCmd) Execute(args []string) error {
	f, err := os.Open(c.InFile)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := hashes.ReadFile(f)
	if err != nil {
		return err
	}
	return file.Dump(os.Stdout)
}

// genRainbowTableCmd implements the gen-rainbow-table command.
type genRainbowTableCmd struct {
	InFile    string `long:"in-file" description:"Password list to seed chains from" required:"true"`
	OutFile   string `long:"out-file" description:"Rainbow table file to write" required:"true"`
	Threads   int    `long:"threads" description:"Number of compute workers" default:"1"`
	Algorithm string `long:"algorithm" description:"Hash algorithm (md5, sha256, sha3_512, scrypt)" required:"true"`
	NumLinks  uint64 `long:"num-links" description:"Number of hash-reduce links per chain" default:"5"`
}

func (c *genRainbowTableCmd) Execute(args []string) error {
	if c.Threads < 1 {
		return usageErrorf("--threads must be positive")
	}
	if c.NumLinks == 0 {
		return usageErrorf("--num-links must be positive")
	}
	algo, err := hashes.AlgorithmFromString(c.Algorithm)
	if err != nil {
		return usageErrorf("unknown algorithm %q", c.Algorithm)
	}

	seeds, err := readPasswordFile(c.InFile)
	if err != nil {
		return err
	}

	pool := worker.New(c.Threads)
	defer pool.Close()
	table, err := rainbow.BuildTable(pool, algo, seeds, c.NumLinks, c.Threads)
	if err != nil {
		return err
	}
	return atomicfile.Write(c.OutFile, table.Serialize)
}

// dumpRainbowTableCmd implements the dump-rainbow-table command.
type dumpRainbowTableCmd struct {
	InFile string `long:"in-file" description:"Rainbow table file to dump" required:"true"`
}

func (c *dumpRainbowTableCmd) Execute(args []string) error {
	table, err := readTableFile(c.InFile)
	if err != nil {
		return err
	}
	return table.Dump(os.Stdout)
}

// crackCmd implements the crack command.
type crackCmd struct {
	InFile  string `long:"in-file" description:"Rainbow table file to crack with" required:"true"`
	Hashes  string `long:"hashes" description:"Hashes file to crack" required:"true"`
	Threads int    `long:"threads" description:"Number of compute workers" default:"1"`
	OutFile string `long:"out-file" description:"Write recovered pairs to this file instead of stdout"`
}

func (c *crackCmd) Execute(args []string) error {
	if c.Threads < 1 {
		return usageErrorf("--threads must be positive")
	}

	table, err := readTableFile(c.InFile)
	if err != nil {
		return err
	}

	hf, err := os.Open(c.Hashes)
	if err != nil {
		return err
	}
	defer hf.Close()
	hashesFile, err := hashes.ReadFile(hf)
	if err != nil {
		return err
	}
	if !table.Matches(hashesFile.Algorithm, hashesFile.PasswordLen) {
		return fmt.Errorf("table (%s, password length %d) cannot answer "+
			"for hashes (%s, password length %d)", table.Algorithm,
			table.PasswordLen, hashesFile.Algorithm,
			hashesFile.PasswordLen)
	}

	pool := worker.New(c.Threads)
	defer pool.Close()
	results, err := pool.MapOrdered(len(hashesFile.Hashes),
		func(i int) (any, error) {
			if password, ok := table.Crack(hashesFile.Hashes[i]); ok {
				return password, nil
			}
			return nil, nil
		})
	if err != nil {
		return err
	}

	out, closeOut, err := outputWriter(c.OutFile)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	for i, result := range results {
		if result == nil {
			continue
		}
		fmt.Fprintf(bw, "%s\t%s\n",
			hex.EncodeToString(hashesFile.Hashes[i]), result.([]byte))
	}
	if err := bw.Flush(); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// readPasswordFile reads and validates a newline-separated password list.
func readPasswordFile(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return passgen.ReadPasswords(f)
}

// readTableFile reads and validates a rainbow table file.
func readTableFile(path string) (*rainbow.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rainbow.ReadTable(f)
}
