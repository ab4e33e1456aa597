package bundler

import (
	"strings"
	"testing"
)

func TestMinifyJSShrinksWhitespace(t *testing.T) {
	src := `function hello(name) {
		// a comment
		return "hi " + name;
	}`

	out, err := MinifyJS(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) >= len(src) {
		t.Fatalf("minified output (%d bytes) is not smaller than input (%d bytes)", len(out), len(src))
	}
	if strings.Contains(out, "// a comment") {
		t.Fatalf("minified output retained a comment: %q", out)
	}
}
