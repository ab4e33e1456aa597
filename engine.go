package dino

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aofei/dino/bundler"
)

// Engine is the top-level struct of this runtime, tying a TenantRegistry, a
// Dispatcher, a bundler.Resolver, and a set of per-tenant Watchers into one
// runnable server, the same role dino-server's lib.rs/engine.rs plays over
// its AppState/SwappableAppRouter/JsWorker trio.
//
// It is highly recommended not to modify the value of any field of the
// Engine after calling Engine.Serve, which will cause unpredictable
// problems. The new instances of the Engine should only be created by
// calling NewEngine.
type Engine struct {
	// Address is the TCP address the server listens on.
	//
	// Default value: "localhost:8080"
	Address string

	// ReadTimeout is the maximum duration allowed for the server to read
	// a request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration allowed for the server to
	// write a response.
	WriteTimeout time.Duration

	// Registry holds every tenant's router and worker-building function.
	Registry *TenantRegistry

	// Logger is shared by the Dispatcher and every Watcher registered
	// through Watch.
	Logger *Logger

	// Resolver is the module resolver/bundler shared by every tenant
	// built through RegisterTenant. Watch does not use it: rebuilds go
	// through the caller's RebuildFunc.
	Resolver *bundler.Resolver

	dispatcher *Dispatcher
	server     *http.Server

	watchersMu sync.Mutex
	watchers   []*Watcher
}

// NewEngine returns an Engine ready to have tenants registered on it.
func NewEngine() *Engine {
	logger := NewLogger()
	registry := NewTenantRegistry()
	return &Engine{
		Address:      "localhost:8080",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Registry:     registry,
		Logger:       logger,
		Resolver:     bundler.NewResolver(nil, bundler.NewURLCache(bundler.CacheDir(false)), bundler.ESBuildTranspiler{}),
		dispatcher:   NewDispatcher(registry, logger),
	}
}

// RegisterTenant bundles entrySpecifier as if it were imported by a module
// at the path projectRoot (so a relative entrySpecifier resolves against
// filepath.Dir(projectRoot), and projectRoot names a file inside the
// project rather than the project directory itself), builds a router from
// routes, and registers host in e's TenantRegistry. buildWorker
// receives the bundled script text on every (re)build, typically
// bundler.MinifyJS-ed, and is expected to wrap it in a NewWorker.
func (e *Engine) RegisterTenant(host, projectRoot, entrySpecifier string, routes []RouteEntry, buildWorker func(bundle string) (*Worker, error)) (*Tenant, error) {
	bundle, err := e.Resolver.Bundle(projectRoot, entrySpecifier)
	if err != nil {
		return nil, fmt.Errorf("dino: bundling tenant %s: %w", host, err)
	}

	minified, err := bundler.MinifyJS(bundle)
	if err != nil {
		return nil, fmt.Errorf("dino: minifying tenant %s: %w", host, err)
	}

	router, err := NewRouter(minified, routes)
	if err != nil {
		return nil, fmt.Errorf("dino: building router for tenant %s: %w", host, err)
	}

	tenant := e.Registry.Register(host, router, func(code string) (*Worker, error) {
		return buildWorker(code)
	})

	return tenant, nil
}

// Watch starts a filesystem watcher on projectRoot that, after a relevant
// change, calls rebuild and hot-swaps the (code, routes) it returns into
// router whenever rebuild succeeds. The Watcher is owned by e and closed
// by Engine.Close.
func (e *Engine) Watch(host, projectRoot string, router *SwappableAppRouter, rebuild RebuildFunc) error {
	w, err := NewWatcher(projectRoot, router, rebuild, e.Logger, host)
	if err != nil {
		return err
	}

	e.watchersMu.Lock()
	e.watchers = append(e.watchers, w)
	e.watchersMu.Unlock()

	go w.Run()
	return nil
}

// Serve starts e's HTTP server and blocks until it stops or fails. It
// intentionally only speaks plain HTTP/1.1: the deployments this runtime
// targets sit behind a TLS-terminating proxy, so the ACME/h2c/
// TLS-certificate machinery the teacher framework carries has no tenant
// in scope (see DESIGN.md).
func (e *Engine) Serve() error {
	e.server = &http.Server{
		Addr:         e.Address,
		Handler:      e.dispatcher,
		ReadTimeout:  e.ReadTimeout,
		WriteTimeout: e.WriteTimeout,
	}

	listener, err := net.Listen("tcp", e.Address)
	if err != nil {
		return err
	}

	e.Logger.Infof("", "listening on %s", listener.Addr())

	return e.server.Serve(listener)
}

// Close closes e's server and every Watcher it started immediately.
func (e *Engine) Close() error {
	e.watchersMu.Lock()
	for _, w := range e.watchers {
		w.Close()
	}
	e.watchersMu.Unlock()

	if e.server == nil {
		return nil
	}
	return e.server.Close()
}

// Shutdown gracefully shuts down e's server without interrupting active
// connections, then closes every Watcher it started.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.watchersMu.Lock()
	for _, w := range e.watchers {
		w.Close()
	}
	e.watchersMu.Unlock()

	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
