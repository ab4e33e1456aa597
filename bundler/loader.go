package bundler

import (
	"fmt"
	"strings"
)

// Load implements spec.md §4.1's load(specifier, skip_cache) -> ModuleSource,
// dispatching to the core, filesystem, or URL loader by classifying
// specifier (which must already be a resolved ModulePath, typically the
// output of Resolve).
func (r *Resolver) Load(specifier string, skipCache bool) (string, error) {
	switch classify(specifier, false) {
	case kindCore:
		src, ok := LoadCore(specifier)
		if !ok {
			return "", errModuleNotFound(specifier, fmt.Errorf("unknown core module"))
		}
		return src, nil

	case kindURL:
		if r.Cache == nil {
			return "", errModuleNotFound(specifier, fmt.Errorf("no URL cache configured"))
		}
		raw, err := r.Cache.Fetch(specifier, skipCache)
		if err != nil {
			return "", errModuleNotFound(specifier, err)
		}
		if strings.HasSuffix(specifier, ".ts") {
			if r.Transpile == nil {
				return "", errTranspileFailed(specifier, fmt.Errorf("no transpiler configured"))
			}
			out, err := r.Transpile.Transpile(specifier, string(raw))
			if err != nil {
				return "", errTranspileFailed(specifier, err)
			}
			// Write the transpiled form back so subsequent loads
			// (including a skip_cache=false reload) see plain JS,
			// matching spec.md §4.1's "write source to cache file".
			if werr := r.Cache.Put(specifier, []byte(out)); werr != nil {
				return "", errModuleNotFound(specifier, werr)
			}
			return out, nil
		}
		return string(raw), nil

	case kindAbsolutePath, kindRelative:
		return r.loadFS(specifier)

	default:
		return "", errModuleNotFound(specifier, fmt.Errorf("unclassifiable specifier"))
	}
}
