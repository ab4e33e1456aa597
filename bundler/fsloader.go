package bundler

import (
	"fmt"
	"os"
	"path/filepath"
)

// loadFS implements the filesystem loader of spec.md §4.1: try the path
// verbatim, then, only if p has no extension, p.js/p.ts/p.json followed by
// (treating p as a directory) p/index.js/p/index.ts/p/index.json — first
// hit wins. A p with an extension is never treated as a directory.
func (r *Resolver) loadFS(p string) (string, error) {
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return r.readAndProcess(p)
	}

	if filepath.Ext(p) == "" {
		for _, ext := range []string{"js", "ts", "json"} {
			candidate := p + "." + ext
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return r.readAndProcess(candidate)
			}
		}

		for _, ext := range []string{"js", "ts", "json"} {
			candidate := filepath.Join(p, "index."+ext)
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return r.readAndProcess(candidate)
			}
		}
	}

	return "", errModuleNotFound(p, fmt.Errorf("no matching file on disk"))
}

// readAndProcess reads a file and applies the post-read processing rules
// of spec.md §4.1: JSON is wrapped as a default export, .ts is
// transpiled, everything else passes through unchanged.
func (r *Resolver) readAndProcess(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errModuleNotFound(path, err)
	}
	return r.process(path, raw)
}

func (r *Resolver) process(path string, raw []byte) (string, error) {
	switch filepath.Ext(path) {
	case ".json":
		return wrapJSON(raw), nil
	case ".ts":
		if r.Transpile == nil {
			return "", errTranspileFailed(path, fmt.Errorf("no transpiler configured"))
		}
		out, err := r.Transpile.Transpile(path, string(raw))
		if err != nil {
			return "", errTranspileFailed(path, err)
		}
		return out, nil
	default:
		return string(raw), nil
	}
}

// wrapJSON implements spec.md §3's JSON ModuleSource rule: a JSON file
// becomes a one-line script exporting the parsed content as the default
// export.
func wrapJSON(raw []byte) string {
	return "export default JSON.parse(`" + escapeBacktickTemplate(raw) + "`);"
}

func escapeBacktickTemplate(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case '`', '\\', '$':
			out = append(out, '\\', b)
		default:
			out = append(out, b)
		}
	}
	return string(out)
}
