package dino

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// routerSnapshot is the immutable (code, trie) pair a tenant currently
// serves (spec.md §3 "Snapshot"). Keeping the bundle source inside the
// snapshot, alongside the trie, means a swap atomically exchanges both
// the routes and the executable script together — Open Question (b) of
// spec.md §9 is resolved in favor of this coupling.
type routerSnapshot struct {
	code string
	trie *trie
}

// SwappableAppRouter is a tenant's (code, route-trie) pair behind a
// lock-free atomic pointer (spec.md §4.5). Go's garbage collector
// reclaims a superseded snapshot once the last reader's reference to it
// drops, which plays the role the original's manual reference counting
// played: no explicit refcount field is needed here.
type SwappableAppRouter struct {
	ptr atomic.Pointer[routerSnapshot]
}

// NewRouter builds a SwappableAppRouter from bundle source code and a
// route table, returning an error if two patterns are ambiguous or if a
// route names a method outside the nine standard verbs.
func NewRouter(code string, routes []RouteEntry) (*SwappableAppRouter, error) {
	snap, err := buildSnapshot(code, routes)
	if err != nil {
		return nil, err
	}
	r := &SwappableAppRouter{}
	r.ptr.Store(snap)
	return r, nil
}

func buildSnapshot(code string, routes []RouteEntry) (*routerSnapshot, error) {
	t := newTrie()
	shapes := map[string]string{} // pattern shape -> first pattern that produced it
	for _, entry := range routes {
		if existing, ok := shapes[patternShape(entry.Pattern)]; ok && existing != entry.Pattern {
			return nil, fmt.Errorf("dino: route pattern %q is ambiguous with %q", entry.Pattern, existing)
		}
		shapes[patternShape(entry.Pattern)] = entry.Pattern

		mr := MethodRoute{}
		for _, h := range entry.Handlers {
			if !isAllowedMethod(h.Method) {
				return nil, fmt.Errorf("dino: route %q names an unsupported method %q", entry.Pattern, h.Method)
			}
			if _, dup := mr[h.Method]; dup {
				return nil, fmt.Errorf("dino: route %q declares method %q more than once", entry.Pattern, h.Method)
			}
			mr[h.Method] = h.Handler
		}
		if err := t.insertRoute(entry.Pattern, mr); err != nil {
			return nil, err
		}
	}
	return &routerSnapshot{code: code, trie: t}, nil
}

// Swap atomically replaces the router's snapshot. Readers that already
// hold a prior snapshot (returned from Load) keep observing it for the
// lifetime of their request; only subsequent Loads see the new one.
func (r *SwappableAppRouter) Swap(code string, routes []RouteEntry) error {
	snap, err := buildSnapshot(code, routes)
	if err != nil {
		return err
	}
	r.ptr.Store(snap)
	return nil
}

// Snapshot is an owning handle on a SwappableAppRouter's state at the
// moment Load was called. It remains valid for the caller's entire
// request even if a concurrent Swap has since published a new one.
type Snapshot struct {
	code string
	trie *trie
}

// Code returns the bundle source this snapshot was built from.
func (s *Snapshot) Code() string { return s.code }

// Load acquires the router's current snapshot.
func (r *SwappableAppRouter) Load() *Snapshot {
	snap := r.ptr.Load()
	return &Snapshot{code: snap.code, trie: snap.trie}
}

// MatchIt resolves (method, path) against the snapshot's trie, per
// spec.md §4.5.
func (s *Snapshot) MatchIt(method, path string) (handlerName string, params map[string]string, err error) {
	return s.trie.match(method, path)
}

// TenantRegistry is the concurrent host -> SwappableAppRouter map of
// spec.md §4.6 step 2. Each Tenant caches one Worker, built from the code
// of the snapshot that last needed it; see Tenant.workerFor.
type TenantRegistry struct {
	tenants sync.Map // host string -> *Tenant
}

// NewTenantRegistry returns an empty registry.
func NewTenantRegistry() *TenantRegistry {
	return &TenantRegistry{}
}

// Tenant is a logical host-scoped routing domain: a host string bound to
// a SwappableAppRouter, plus the cached Worker for whichever snapshot is
// currently live.
type Tenant struct {
	Host   string
	Router *SwappableAppRouter

	mu          sync.Mutex
	workerCode  string
	worker      *Worker
	workerBuild func(code string) (*Worker, error)
}

// Register adds or replaces the tenant for host. build constructs a
// Worker from a snapshot's bundle source; it is invoked lazily, whenever
// a request's snapshot code differs from that of the cached Worker.
func (tr *TenantRegistry) Register(host string, router *SwappableAppRouter, build func(code string) (*Worker, error)) *Tenant {
	t := &Tenant{Host: host, Router: router, workerBuild: build}
	tr.tenants.Store(host, t)
	return t
}

// Lookup returns the tenant registered for host, or nil.
func (tr *TenantRegistry) Lookup(host string) *Tenant {
	v, ok := tr.tenants.Load(host)
	if !ok {
		return nil
	}
	return v.(*Tenant)
}

// workerFor returns the Worker for the given snapshot, building (and
// caching) a fresh one whenever the snapshot's code differs from the
// currently cached worker's. Only one Worker is cached per tenant: a
// request still holding a snapshot from before a swap rebuilds a Worker
// for that older code and replaces the cached one, and the next request
// on the newer snapshot builds its Worker again.
func (t *Tenant) workerFor(snap *Snapshot) (*Worker, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.worker != nil && t.workerCode == snap.code {
		return t.worker, nil
	}

	w, err := t.workerBuild(snap.code)
	if err != nil {
		return nil, err
	}

	t.worker = w
	t.workerCode = snap.code
	return w, nil
}
