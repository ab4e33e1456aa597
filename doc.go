/*
Package dino implements a multi-tenant HTTP runtime for user-supplied
scripts.

Tenants

A tenant is a hostname bound to a route table and a bundled script. Each
inbound request is dispatched to the tenant whose host matches the
request's Host header (port stripped), then routed within that tenant by
method and path to a named handler exported by the tenant's script:

	registry := dino.NewTenantRegistry()
	router, err := dino.NewRouter(bundleText, []dino.RouteEntry{
		{
			Pattern: "/users/:id",
			Handlers: []dino.RouteHandler{
				{Method: "GET", Handler: "getUser"},
			},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	registry.Register("example.com", router, func(code string) (*dino.Worker, error) {
		return dino.NewWorker(code, os.Stdout)
	})

	dispatcher := dino.NewDispatcher(registry, dino.NewLogger())
	http.ListenAndServe(":8080", dispatcher)

A route pattern contains STATIC, PARAM (":name"), and ANY ("*")
components, matched longest-prefix-first against the tenant's currently
live Snapshot. Route params are returned from Snapshot.MatchIt and passed
through to the handler's Req.Params.

Engine

Engine wires a TenantRegistry, a Dispatcher, a bundler.Resolver, and any
number of filesystem Watchers into one runnable server — the same role
dino-server's lib.rs/engine.rs plays over its own AppState and
SwappableAppRouter:

	engine := dino.NewEngine()
	_, err := engine.RegisterTenant(
		"example.com", "./example-project/index.ts", "./index.ts",
		routes, func(bundle string) (*dino.Worker, error) {
			return dino.NewWorker(bundle, os.Stdout)
		},
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(engine.Serve())

Module bundling

Package bundler resolves import specifiers (core module names, relative
and absolute filesystem paths, and http(s) URLs), loads and optionally
transpiles their source, and assembles a single self-contained script
from the resulting import graph — see that package's documentation for
details.
*/
package dino
