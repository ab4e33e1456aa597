package dino

import (
	"fmt"
	"net/http"
)

// Kind identifies one of the error variants the core can surface, per the
// taxonomy of spec.md §7.
type Kind uint8

const (
	// KindHostNotFound means the Host header did not match any
	// registered tenant.
	KindHostNotFound Kind = iota

	// KindRoutePathNotFound means the trie had no entry for the
	// requested path.
	KindRoutePathNotFound

	// KindRouteMethodNotAllowed means the path matched but the method
	// slot was empty.
	KindRouteMethodNotAllowed

	// KindModuleNotFound means a resolver or loader could not find the
	// requested specifier. Fatal at build/startup time.
	KindModuleNotFound

	// KindImportMapInvalid means the import map JSON was malformed or
	// had the wrong shape. Fatal at build/startup time.
	KindImportMapInvalid

	// KindTranspileFailed means the transpiler rejected a typed source
	// file. Fatal at build/startup time.
	KindTranspileFailed

	// KindScriptEvalFailed means evaluating the bundle threw or did not
	// produce an object.
	KindScriptEvalFailed

	// KindHandlerMissing means the named handler is absent from the
	// bundle's exported object.
	KindHandlerMissing

	// KindHandlerThrew means the script raised an exception during the
	// call.
	KindHandlerThrew

	// KindResponseInvalid means the value returned by the handler failed
	// the Res schema (missing/invalid status, non-string body, etc).
	KindResponseInvalid
)

// Error is the error type returned by route matching (Snapshot.MatchIt)
// and by script execution (NewWorker, Worker.Run). It carries enough
// information to map onto an HTTP status without the caller needing to
// inspect message text. Construction-time operations (NewRouter, Swap,
// ParseProjectConfig, Engine.RegisterTenant) return plain errors.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error's Kind to the status code prescribed by
// spec.md §7. Kinds that are fatal at build time (module-not-found,
// import-map-invalid, transpile-failed) map to 500 here since, if one
// somehow reaches the dispatcher, it means a hot-reload slipped a bad
// bundle past validation.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindHostNotFound, KindRoutePathNotFound:
		return http.StatusNotFound
	case KindRouteMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func newError(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Message: msg, Err: err}
}

func errHostNotFound(host string) *Error {
	return newError(KindHostNotFound, fmt.Sprintf("dino: no tenant registered for host %q", host), nil)
}

func errRoutePathNotFound(path string) *Error {
	return newError(KindRoutePathNotFound, fmt.Sprintf("dino: no route matches path %q", path), nil)
}

func errRouteMethodNotAllowed(method, path string) *Error {
	return newError(KindRouteMethodNotAllowed, fmt.Sprintf("dino: method %s not allowed for path %q", method, path), nil)
}

func errModuleNotFound(specifier string, err error) *Error {
	return newError(KindModuleNotFound, fmt.Sprintf("dino: module not found: %q", specifier), err)
}

func errImportMapInvalid(err error) *Error {
	return newError(KindImportMapInvalid, "dino: invalid import map", err)
}

func errTranspileFailed(filename string, err error) *Error {
	return newError(KindTranspileFailed, fmt.Sprintf("dino: transpile failed for %q", filename), err)
}

func errScriptEvalFailed(err error) *Error {
	return newError(KindScriptEvalFailed, "dino: bundle evaluation failed", err)
}

func errHandlerMissing(name string) *Error {
	return newError(KindHandlerMissing, fmt.Sprintf("dino: no handler named %q", name), nil)
}

func errHandlerThrew(name string, err error) *Error {
	return newError(KindHandlerThrew, fmt.Sprintf("dino: handler %q threw", name), err)
}

func errResponseInvalid(reason string) *Error {
	return newError(KindResponseInvalid, fmt.Sprintf("dino: invalid response: %s", reason), nil)
}
