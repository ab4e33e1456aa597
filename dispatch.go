package dino

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
)

// Dispatcher turns inbound HTTP requests into handler invocations against
// the tenant selected by the Host header (spec.md §4.6). It implements
// http.Handler so it can be mounted under any generic router or used
// directly with net/http — the HTTP framework itself is explicitly an
// external collaborator per spec.md §1, so Dispatcher only needs to be a
// standard http.Handler, not a router of its own.
type Dispatcher struct {
	Registry *TenantRegistry
	Logger   *Logger

	// BuildWorker constructs a Worker from bundle source; NewDispatcher
	// sets a default. ServeHTTP does not call it: each request's Worker
	// comes from the build function its Tenant was registered with (see
	// TenantRegistry.Register).
	BuildWorker func(code string) (*Worker, error)
}

// NewDispatcher returns a Dispatcher whose workers print to os.Stdout via
// print(), backed by the given registry.
func NewDispatcher(registry *TenantRegistry, logger *Logger) *Dispatcher {
	d := &Dispatcher{Registry: registry, Logger: logger}
	d.BuildWorker = func(code string) (*Worker, error) {
		return NewWorker(code, os.Stdout)
	}
	return d
}

// ServeHTTP implements spec.md §4.6's eight dispatch steps.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	host := stripPort(r.Host)

	tenant := d.Registry.Lookup(host)
	if tenant == nil {
		d.writeError(w, errHostNotFound(host))
		return
	}

	snap := tenant.Router.Load()

	handlerName, params, err := snap.MatchIt(r.Method, r.URL.Path)
	if err != nil {
		d.writeError(w, err.(*Error))
		return
	}

	req, err := d.buildReq(r, params)
	if err != nil {
		d.writeError(w, newError(KindResponseInvalid, "dino: failed to read request body", err))
		return
	}

	worker, err := tenant.workerFor(snap)
	if err != nil {
		d.logf(tenant.Host, "worker build failed: %v", err)
		d.writeError(w, errScriptEvalFailed(err))
		return
	}

	res, err := worker.Run(handlerName, req)
	if err != nil {
		d.logf(tenant.Host, "handler %q failed: %v", handlerName, err)
		if derr, ok := err.(*Error); ok {
			d.writeError(w, derr)
		} else {
			d.writeError(w, newError(KindHandlerThrew, "dino: handler failed", err))
		}
		return
	}

	d.writeRes(w, res)
}

func (d *Dispatcher) buildReq(r *http.Request, params map[string]string) (*Req, error) {
	query := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	headers := map[string]string{}
	for k, vs := range r.Header {
		if len(vs) > 0 {
			headers[k] = vs[0]
		}
	}

	var body *string
	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			body = canonicalizeJSONBody(raw)
		}
	}

	return &Req{
		Method:  r.Method,
		URL:     r.URL.String(),
		Query:   query,
		Params:  params,
		Headers: headers,
		Body:    body,
	}, nil
}

// canonicalizeJSONBody implements spec.md §4.6 step 5, "parse the
// request body, if present, as JSON": a well-formed JSON body is
// re-encoded canonically; a non-JSON body (e.g. form-encoded) is passed
// through verbatim rather than rejected, since spec.md does not make a
// non-JSON body a dispatch error.
func canonicalizeJSONBody(raw []byte) *string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		s := string(raw)
		return &s
	}
	canon, err := json.Marshal(v)
	if err != nil {
		s := string(raw)
		return &s
	}
	s := string(canon)
	return &s
}

func (d *Dispatcher) writeRes(w http.ResponseWriter, res *Res) {
	hdr := w.Header()
	for k, v := range res.Headers {
		hdr.Set(k, v)
	}
	w.WriteHeader(int(res.Status))
	if res.Body != nil {
		io.WriteString(w, *res.Body)
	}
}

func (d *Dispatcher) writeError(w http.ResponseWriter, err *Error) {
	status := err.HTTPStatus()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (d *Dispatcher) logf(tenant, format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Errorf(tenant, format, args...)
	}
}

// stripPort truncates host at the first ':', discarding the port, per
// spec.md §4.6 step 1.
func stripPort(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
