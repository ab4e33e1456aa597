package bundler

import "embed"

//go:embed coremodules
var coreModuleFS embed.FS

// coreModules is the static mapping from well-known names to embedded
// source text compiled into the binary (spec.md §3 "Core Module Table").
// It is built once at package init and never mutated afterward.
var coreModules map[string]string

func init() {
	names := map[string]string{
		"console":     "coremodules/console.js",
		"events":      "coremodules/events.js",
		"process":     "coremodules/process.js",
		"timers":      "coremodules/timers.js",
		"assert":      "coremodules/assert.js",
		"util":        "coremodules/util.js",
		"fs":          "coremodules/fs.js",
		"perf_hooks":  "coremodules/perf_hooks.js",
		"colors":      "coremodules/colors.js",
		"dns":         "coremodules/dns.js",
		"net":         "coremodules/net.js",
		"test":        "coremodules/test.js",
		"stream":      "coremodules/stream.js",
		"http":        "coremodules/http.js",
		"@web/fetch":  "coremodules/web/fetch.js",
		"@web/streams": "coremodules/web/streams.js",
		"@web/url":    "coremodules/web/url.js",
		"@web/abort":  "coremodules/web/abort.js",
	}

	coreModules = make(map[string]string, len(names))
	for name, path := range names {
		b, err := coreModuleFS.ReadFile(path)
		if err != nil {
			panic("bundler: missing embedded core module " + name + ": " + err.Error())
		}
		coreModules[name] = string(b)
	}
}

// LoadCore returns the source of a core module by name, or false if name
// is not a known core module.
func LoadCore(name string) (string, bool) {
	s, ok := coreModules[name]
	return s, ok
}
