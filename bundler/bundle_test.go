package bundler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCjsifyRewritesImportForms(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"default", `import greeting from "./g.js";`, `var greeting = require("./g.js").default;`},
		{"namespace", `import * as utils from "./u.js";`, `var utils = require("./u.js");`},
		{"named", `import { a, b } from "./n.js";`, `var {a, b} = require("./n.js");`},
		{"sideEffect", `import "./init.js";`, `require("./init.js");`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := cjsify(c.in)
			if !strings.Contains(got, c.want) {
				t.Fatalf("cjsify(%q) = %q, want to contain %q", c.in, got, c.want)
			}
		})
	}
}

func TestBundleResolvesLocalImportGraph(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "greeting.js"), []byte(`export default "hi";`), 0o644); err != nil {
		t.Fatal(err)
	}
	entry := `
import greeting from "./greeting.js";
export default { hello: function(req) { return { status: 200, body: greeting }; } };
`
	if err := os.WriteFile(filepath.Join(dir, "index.js"), []byte(entry), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	bundle, err := r.Bundle(filepath.Join(dir, "index.js"), "./index.js")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(bundle, "__dino_require__") {
		t.Fatalf("bundle missing module registry runtime: %s", bundle)
	}
	if !strings.HasPrefix(bundle, "(function(){") || !strings.HasSuffix(bundle, "})()") {
		t.Fatalf("bundle is not a self-contained IIFE: %s", bundle)
	}
}

func TestBundleInlinesCoreModules(t *testing.T) {
	dir := t.TempDir()
	entry := `
import console from "console";
export default { hello: function(req) { console.log("hi"); return { status: 200 }; } };
`
	if err := os.WriteFile(filepath.Join(dir, "index.js"), []byte(entry), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	bundle, err := r.Bundle(filepath.Join(dir, "index.js"), "./index.js")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(bundle, `__dino_modules__["console"]`) {
		t.Fatalf("bundle did not inline the console core module: %s", bundle)
	}
}

func TestBundleDetectsCycleWithoutInfiniteRecursion(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.js"), []byte(`import "./b.js"; export default "a";`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.js"), []byte(`import "./a.js"; export default "b";`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := r.Bundle(filepath.Join(dir, "a.js"), "./a.js"); err != nil {
			t.Error(err)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Bundle did not terminate on a cyclic import graph")
	}
}
