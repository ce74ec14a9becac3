// Copyright (c) 2026 The Hashassin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server implements the hashassin server runtime: a TCP accept loop
// feeding a bounded set of I/O workers, a registry of uploaded rainbow
// tables, a byte-budgeted result cache, and dispatch of cracking work onto
// the compute pool.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hashassin/hashassin/hashes"
	"github.com/hashassin/hashassin/rainbow"
	"github.com/hashassin/hashassin/wire"
	"github.com/hashassin/hashassin/worker"
)

// Config holds the configuration parameters of a server.
type Config struct {
	// Bind is the local address to listen on and Port the TCP port.
	Bind string
	Port uint16

	// AsyncWorkers is the number of I/O workers consuming accepted
	// connections.  I/O workers parse frames, serve the cache and write
	// responses; they never hash.
	AsyncWorkers int

	// ComputeWorkers is the size of the compute pool all hashing and
	// reduction work runs on.
	ComputeWorkers int

	// CacheBudget is the result cache size in bytes.  Zero disables the
	// cache.
	CacheBudget int64
}

// Server hosts uploaded rainbow tables and answers cracking requests.
type Server struct {
	cfg      Config
	registry *Registry
	cache    *Cache
	pool     *worker.Pool

	listener net.Listener
	conns    chan net.Conn
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	started bool
	mtx     sync.Mutex
}

// New returns a server for the given configuration.  Start must be called
// before the server accepts connections.
func New(cfg *Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	asyncWorkers := cfg.AsyncWorkers
	if asyncWorkers < 1 {
		asyncWorkers = 1
	}
	return &Server{
		cfg:      *cfg,
		registry: NewRegistry(),
		cache:    NewCache(cfg.CacheBudget),
		pool:     worker.New(cfg.ComputeWorkers),
		conns:    make(chan net.Conn, asyncWorkers),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Registry returns the server's table registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Addr returns the listener address.  It is only valid after Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start begins listening and launches the accept loop and the I/O workers.
// Calling Start on an already started server has no effect.
func (s *Server) Start() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.started {
		return nil
	}

	addr := net.JoinHostPort(s.cfg.Bind, fmt.Sprintf("%d", s.cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	asyncWorkers := cap(s.conns)
	for i := 0; i < asyncWorkers; i++ {
		s.wg.Add(1)
		go s.ioWorker(i)
	}
	s.wg.Add(1)
	go s.acceptConnections()

	s.started = true
	log.Infof("Server listening on %s (%d I/O workers, %d compute workers)",
		listener.Addr(), asyncWorkers, s.cfg.ComputeWorkers)
	return nil
}

// Stop closes the listener, waits for in-flight requests to finish and
// shuts the compute pool down.  Calling Stop on a server that has not been
// started has no effect.
func (s *Server) Stop() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.started {
		return
	}

	log.Infof("Server shutting down")
	s.cancel()
	s.listener.Close()
	s.wg.Wait()
	s.pool.Close()
	s.started = false
	log.Infof("Server stopped")
}

// acceptConnections accepts connections and hands them to the I/O workers
// until the listener closes.
func (s *Server) acceptConnections() {
	defer s.wg.Done()
	defer close(s.conns)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				log.Warnf("Accept failed: %v", err)
				continue
			}
		}
		select {
		case s.conns <- conn:
		case <-s.ctx.Done():
			conn.Close()
			return
		}
	}
}

// ioWorker serves accepted connections one at a time.  A connection carries
// exactly one request and is closed once the response has been written.
func (s *Server) ioWorker(id int) {
	defer s.wg.Done()
	for conn := range s.conns {
		s.handleConn(conn)
	}
	log.Tracef("I/O worker %d done", id)
}

// handleConn reads one request frame from the connection, serves it and
// closes the connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()
	remote := conn.RemoteAddr()

	msg, err := wire.ReadRequest(conn)
	if err != nil {
		log.Debugf("Rejected request from %s: %v", remote, err)
		wire.WriteStatusResponse(conn, wire.StatusBadRequest, err.Error())
		return
	}

	switch msg := msg.(type) {
	case *wire.MsgUpload:
		s.handleUpload(conn, msg)
		log.Infof("upload %q from %s served in %v", msg.Name, remote,
			time.Since(start))

	case *wire.MsgCrack:
		s.handleCrack(conn, msg)
		log.Infof("crack from %s served in %v", remote, time.Since(start))
	}
}

// handleUpload parses the embedded rainbow table file and, only on success,
// makes it visible to crack requests.  A malformed upload leaves the
// registry untouched.
func (s *Server) handleUpload(conn net.Conn, msg *wire.MsgUpload) {
	table, err := rainbow.ReadTable(bytes.NewReader(msg.Payload))
	if err != nil {
		log.Debugf("Rejected table upload %q: %v", msg.Name, err)
		wire.WriteStatusResponse(conn, statusFor(err), err.Error())
		return
	}

	s.registry.Insert(msg.Name, table)
	reply := fmt.Sprintf("table %q loaded: algorithm %s, password length "+
		"%d, %d chains", msg.Name, table.Algorithm, table.PasswordLen,
		len(table.Chains))
	if err := wire.WriteStatusResponse(conn, wire.StatusOK, reply); err != nil {
		log.Debugf("Response write to %s failed: %v", conn.RemoteAddr(), err)
	}
}

// handleCrack serves a crack request from the cache when possible and
// otherwise dispatches the cracking walk onto the compute pool.  The
// response lists recovered pairs in the order their hashes appeared in the
// request; a disconnected client only cancels the response write, never the
// computation, so the result still lands in the cache for retries.
func (s *Server) handleCrack(conn net.Conn, msg *wire.MsgCrack) {
	hashesFile, err := hashes.ReadFile(bytes.NewReader(msg.Payload))
	if err != nil {
		log.Debugf("Rejected crack request: %v", err)
		wire.WriteStatusResponse(conn, statusFor(err), err.Error())
		return
	}

	// The fingerprint is a SHA-256 digest, so it runs on the compute pool
	// like all other hashing.
	fingerprint, _ := s.pool.Submit(func() (any, error) {
		return Fingerprint(msg.Payload), nil
	}).Wait()
	key := fingerprint.(CacheKey)
	pairs, cached, err := s.cache.Do(key, func() ([]wire.Pair, error) {
		return s.crack(hashesFile)
	})
	if err != nil {
		wire.WriteStatusResponse(conn, wire.StatusInternal, err.Error())
		return
	}
	if cached {
		log.Debugf("Crack request %x served from cache", key[:8])
	}

	if err := wire.WriteCrackResponse(conn, pairs); err != nil {
		log.Debugf("Response write to %s failed: %v", conn.RemoteAddr(), err)
	}
}

// crack walks every target hash against every matching uploaded table on
// the compute pool and returns the recovered pairs in request order.
func (s *Server) crack(file *hashes.File) ([]wire.Pair, error) {
	tables := s.registry.Matching(file.Algorithm, file.PasswordLen)
	log.Debugf("Cracking %d hashes against %d matching tables",
		len(file.Hashes), len(tables))
	if len(tables) == 0 {
		return nil, nil
	}

	results, err := s.pool.MapOrdered(len(file.Hashes), func(i int) (any, error) {
		target := file.Hashes[i]
		for _, table := range tables {
			if password, ok := table.Crack(target); ok {
				return password, nil
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]wire.Pair, 0, len(results))
	for i, result := range results {
		if result == nil {
			continue
		}
		pairs = append(pairs, wire.Pair{
			Hash:     file.Hashes[i],
			Password: result.([]byte),
		})
	}
	return pairs, nil
}

// statusFor maps a parse failure of an embedded file to the response status
// byte: file-format failures are distinguished from frame-level ones.
func statusFor(err error) wire.Status {
	switch {
	case errors.Is(err, rainbow.ErrMalformedFile),
		errors.Is(err, rainbow.ErrBadNumLinks),
		errors.Is(err, rainbow.ErrNoChains),
		errors.Is(err, hashes.ErrMalformedFile),
		errors.Is(err, hashes.ErrBadPasswordLen),
		errors.Is(err, hashes.ErrUnknownAlgorithm):
		return wire.StatusMalformedFile

	default:
		return wire.StatusBadRequest
	}
}
