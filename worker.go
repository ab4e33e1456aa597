package dino

import (
	"fmt"
	"io"
	"sync"

	"github.com/dop251/goja"
)

// Worker owns one embedded script runtime and exactly one evaluation
// context (spec.md §3 "Worker"). A goja.Runtime plays the role of both
// the "runtime" and the single "context" the spec describes — goja has
// no separate multi-context concept the way some embeddable engines do,
// so one Runtime per Worker already satisfies "exactly one evaluation
// context".
//
// A Worker is not safe for concurrent Run calls; callers must serialize
// them (spec.md §5's "per-worker single-threadedness"). This
// implementation uses strategy (b) from spec.md's Design Notes: a
// sync.Mutex held for the full invocation.
type Worker struct {
	mu       sync.Mutex
	rt       *goja.Runtime
	handlers *goja.Object
}

// NewWorker evaluates bundleText as an expression producing an object
// (conventionally an IIFE returning `{ name: function, ... }`), binds it
// to the global "handlers" property, and binds a "print" host function
// that writes its single string argument to out with a trailing newline
// (spec.md §3/§9 — "print"'s destination is an injected io.Writer rather
// than hardcoded to stdout, a feature supplemented from the original's
// engine.rs per SPEC_FULL.md §9, so tests can capture output).
func NewWorker(bundleText string, out io.Writer) (*Worker, error) {
	rt := goja.New()

	rt.Set("print", func(s string) {
		fmt.Fprintln(out, s)
	})

	v, err := rt.RunString(bundleText)
	if err != nil {
		return nil, errScriptEvalFailed(err)
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, errScriptEvalFailed(fmt.Errorf("bundle evaluated to a %s, not an object", v.ExportType()))
	}

	rt.Set("handlers", obj)

	return &Worker{rt: rt, handlers: obj}, nil
}

// Run looks up handlers[name], marshals req into a script object, calls
// the function with (reqObj), and unmarshals the settled return value as
// a Res (spec.md §4.4).
func (w *Worker) Run(name string, req *Req) (*Res, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fnVal := w.handlers.Get(name)
	if fnVal == nil || goja.IsUndefined(fnVal) {
		return nil, errHandlerMissing(name)
	}

	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, errHandlerMissing(name)
	}

	reqObj := marshalReq(w.rt, req)

	result, err := fn(goja.Undefined(), reqObj)
	if err != nil {
		return nil, errHandlerThrew(name, err)
	}

	settled, err := w.await(result)
	if err != nil {
		return nil, errHandlerThrew(name, err)
	}

	res, err := unmarshalRes(settled)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// await interprets v as a thenable and returns its settled value.
// goja drains the job queue for native Promises and async-function
// continuations synchronously as part of each call into the VM, so a
// Promise returned by a handler that performs no pending host-async work
// (timers, real I/O — both out of this package's scope per spec.md's
// Non-goals) is already fulfilled or rejected by the time control
// returns here.
func (w *Worker) await(v goja.Value) (goja.Value, error) {
	p, ok := v.(*goja.Promise)
	if !ok {
		return v, nil
	}

	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result(), nil
	case goja.PromiseStateRejected:
		return nil, fmt.Errorf("promise rejected: %v", p.Result())
	default:
		return nil, fmt.Errorf("handler returned a promise that is still pending; " +
			"dino has no host event loop to drive pending async work")
	}
}
