package bundler

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Transpiler is the external-collaborator contract of spec.md §4.3:
// given an optional filename and source text, produce plain script text
// or an error carrying a diagnostic message.
type Transpiler interface {
	Transpile(filename, source string) (string, error)
}

// ESBuildTranspiler fulfills the Transpiler contract with
// github.com/evanw/esbuild's Transform API — a reputable typed-source
// transpiler that strips type annotations and lowers modern syntax, and
// (per spec.md §4.3) supports decorators and JSX/typed-XML-like syntax,
// grounded on the same `api.Transform` call used for .ts/.tsx files by
// the pack's please_js/tools/transpile package.
type ESBuildTranspiler struct{}

func (ESBuildTranspiler) Transpile(filename, source string) (string, error) {
	loader := api.LoaderTS
	if strings.HasSuffix(filename, ".tsx") {
		loader = api.LoaderTSX
	}

	result := api.Transform(source, api.TransformOptions{
		Loader:     loader,
		Format:     api.FormatESModule,
		Target:     api.ESNext,
		JSX:        api.JSXAutomatic,
		Sourcefile: filename,
	})

	if len(result.Errors) > 0 {
		var b strings.Builder
		for _, e := range result.Errors {
			if e.Location != nil {
				fmt.Fprintf(&b, "%s:%d:%d: %s\n", filename, e.Location.Line, e.Location.Column, e.Text)
			} else {
				fmt.Fprintf(&b, "%s: %s\n", filename, e.Text)
			}
		}
		return "", fmt.Errorf("%s", b.String())
	}

	return string(result.Code), nil
}
