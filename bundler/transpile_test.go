package bundler

import (
	"strings"
	"testing"
)

func TestESBuildTranspilerStripsTypes(t *testing.T) {
	src := `export default function greet(name: string): string { return "hi " + name; }`

	out, err := (ESBuildTranspiler{}).Transpile("greet.ts", src)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, ": string") {
		t.Fatalf("transpiled output still contains a type annotation: %q", out)
	}
	if !strings.Contains(out, "greet") {
		t.Fatalf("transpiled output lost the function name: %q", out)
	}
}

func TestESBuildTranspilerReportsErrors(t *testing.T) {
	_, err := (ESBuildTranspiler{}).Transpile("broken.ts", `export default function( : : :`)
	if err == nil {
		t.Fatal("expected a transpile error for malformed syntax")
	}
}
