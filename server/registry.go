// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"sync"
	"time"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/rainbow"
)

// Entry is one uploaded rainbow table held by the registry.  Names are
// client-chosen labels and need not be unique; every entry whose table
// matches a crack request is searched.
type Entry struct {
	Name     string
	LoadedAt time.Time
	Table    *rainbow.Table
}

// Registry is the concurrent collection of uploaded rainbow tables.  Tables
// are immutable once inserted, so readers only need the lock long enough to
// snapshot the entry list.  There is no removal; the registry grows until
// server shutdown.
type Registry struct {
	mtx     sync.RWMutex
	entries []Entry
}

// NewRegistry returns an empty table registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Insert adds a fully-loaded table under the given name.  It always
// succeeds and never replaces an existing entry.
func (r *Registry) Insert(name string, table *rainbow.Table) {
	entry := Entry{Name: name, LoadedAt: time.Now(), Table: table}
	r.mtx.Lock()
	r.entries = append(r.entries, entry)
	r.mtx.Unlock()
}

// Len returns the number of uploaded tables.
func (r *Registry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.entries)
}

// Matching returns a snapshot of every table that can answer for the given
// algorithm and password length.  Tables inserted concurrently with the call
// may or may not appear, but an appearing table is always fully loaded.
func (r *Registry) Matching(algo hashes.Algorithm, passwordLen uint8) []*rainbow.Table {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var tables []*rainbow.Table
	for _, entry := range r.entries {
		if entry.Table.Matches(algo, passwordLen) {
			tables = append(tables, entry.Table)
		}
	}
	return tables
}
