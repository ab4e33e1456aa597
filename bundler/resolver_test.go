package bundler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRelativeToFilesystemBase(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	dir := t.TempDir()
	base := filepath.Join(dir, "index.js")

	got, err := r.Resolve(base, "./lib/helper.js", false)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Clean(filepath.Join(dir, "lib", "helper.js"))
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveCoreModulePassesThrough(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	got, err := r.Resolve("", "console", false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "console" {
		t.Fatalf("Resolve(console) = %q, want console", got)
	}
}

func TestResolveRejectsBareRelativeWithoutDotSlash(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	if _, err := r.Resolve("", "lib/helper.js", true); err == nil {
		t.Fatal("expected an error for a relative specifier missing ./ or ../")
	}
}

func TestResolveAbsolutePathAgainstURLBase(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	got, err := r.Resolve("https://cdn.example.com/lib/index.js", "/utils.js", false)
	if err != nil {
		t.Fatal(err)
	}
	want := "https://cdn.example.com/utils.js"
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveRelativePathAgainstURLBase(t *testing.T) {
	r := NewResolver(nil, nil, nil)

	got, err := r.Resolve("https://cdn.example.com/lib/index.js", "./helper.js", false)
	if err != nil {
		t.Fatal(err)
	}
	want := "https://cdn.example.com/lib/helper.js"
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestLoadFSReadsPlainJS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.js")
	if err := os.WriteFile(path, []byte("export default 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	src, err := r.Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if src != "export default 1;" {
		t.Fatalf("Load = %q", src)
	}
}

func TestLoadFSExtensionlessFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.js")
	if err := os.WriteFile(path, []byte("export default 2;"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	src, err := r.Load(filepath.Join(dir, "mod"), false)
	if err != nil {
		t.Fatal(err)
	}
	if src != "export default 2;" {
		t.Fatalf("Load = %q", src)
	}
}

func TestLoadFSIndexFallback(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "index.js"), []byte("export default 3;"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	src, err := r.Load(sub, false)
	if err != nil {
		t.Fatal(err)
	}
	if src != "export default 3;" {
		t.Fatalf("Load = %q", src)
	}
}

func TestLoadFSWrapsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(nil, nil, nil)
	src, err := r.Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	want := "export default JSON.parse(`{\"a\":1}`);"
	if src != want {
		t.Fatalf("Load = %q, want %q", src, want)
	}
}

func TestLoadFSMissingModule(t *testing.T) {
	r := NewResolver(nil, nil, nil)
	if _, err := r.Load(filepath.Join(t.TempDir(), "absent.js"), false); err == nil {
		t.Fatal("expected module-not-found error")
	}
}
