package bundler

import (
	"bytes"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

// jsMinifier is a package-level singleton *minify.M, configured once at
// package initialization and reused across calls.
var jsMinifier = func() *minify.M {
	m := minify.New()
	m.AddFunc("text/javascript", js.Minify)
	return m
}()

// MinifyJS minifies a bundled script before it is handed to a Worker
// (Engine.RegisterTenant calls it on every bundle). The URL cache stores
// module sources as fetched or transpiled; they are not minified.
func MinifyJS(source string) (string, error) {
	var buf bytes.Buffer
	if err := jsMinifier.Minify("text/javascript", &buf, bytes.NewReader([]byte(source))); err != nil {
		return "", err
	}
	return buf.String(), nil
}
