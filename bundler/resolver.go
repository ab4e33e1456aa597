package bundler

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Resolver resolves specifiers to canonical ModulePaths and loads their
// source, per spec.md §4.1. It owns an optional ImportMap and is safe
// for concurrent use once constructed (its fields are read-only after
// NewResolver).
type Resolver struct {
	ImportMap *ImportMap
	Cache     *URLCache
	Transpile Transpiler
}

// NewResolver returns a Resolver. cache and transpile may be nil, in
// which case URL loading and TypeScript transpilation respectively are
// unavailable and fail with module-not-found / transpile-failed.
func NewResolver(importMap *ImportMap, cache *URLCache, transpile Transpiler) *Resolver {
	return &Resolver{ImportMap: importMap, Cache: cache, Transpile: transpile}
}

// Resolve implements spec.md §4.1's resolve(base?, specifier, ignore_core,
// import_map?) -> ModulePath. base, if non-empty, is either a URL or a
// filesystem path naming the importing module.
func (r *Resolver) Resolve(base, specifier string, ignoreCore bool) (string, error) {
	if r.ImportMap != nil {
		if mapped, ok := r.ImportMap.Lookup(specifier); ok {
			specifier = mapped
		}
	}

	kind := classify(specifier, ignoreCore)

	if kind == kindCore {
		return specifier, nil
	}

	if kind == kindURL {
		u, err := url.Parse(specifier)
		if err != nil {
			return "", errModuleNotFound(specifier, err)
		}
		return u.String(), nil
	}

	// A URL base takes precedence over treating specifier as a local
	// absolute path: an absolute-path or relative specifier imported
	// from a URL module resolves against that URL, never the local
	// filesystem, regardless of what classify would say about
	// specifier on its own.
	if baseURL, err := url.Parse(base); base != "" && err == nil && baseURL.Scheme != "" {
		resolved, err := baseURL.Parse(specifier)
		if err != nil {
			return "", errModuleNotFound(specifier, err)
		}
		return resolved.String(), nil
	}

	if kind == kindAbsolutePath {
		return filepath.Clean(specifier), nil
	}

	// kindRelative
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") {
		return "", errModuleNotFound(specifier, fmt.Errorf("relative specifier must start with ./ or ../"))
	}

	dir := cwd()
	if base != "" {
		dir = filepath.Dir(base)
	}
	return filepath.Clean(filepath.Join(dir, specifier)), nil
}
