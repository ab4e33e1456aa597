// Package bundler resolves and loads ECMAScript/TypeScript module
// specifiers into a single self-contained bundle, per spec.md §4.1–§4.3:
// a core-module table, a filesystem loader, a URL loader with an
// on-disk+memory content-addressed cache, a WICG-style import map, and a
// pluggable typed-source transpiler.
package bundler

import (
	"net/url"
	"regexp"
)

// specifierKind classifies a raw import specifier, per spec.md §3's
// classification precedence: core > windows-absolute > URL > relative.
type specifierKind uint8

const (
	kindCore specifierKind = iota
	kindAbsolutePath
	kindURL
	kindRelative
)

var windowsDriveRe = regexp.MustCompile(`^[a-zA-Z]:\\`)

// classify determines the kind of specifier s. ignoreCore means "do not
// treat s as core even if it names a built-in module" (spec.md §4.1).
func classify(s string, ignoreCore bool) specifierKind {
	if !ignoreCore {
		if _, ok := coreModules[s]; ok {
			return kindCore
		}
	}

	if windowsDriveRe.MatchString(s) {
		return kindAbsolutePath
	}

	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		return kindURL
	}
	// A scheme alone (e.g. "file:") without host still counts as a URL
	// if it parses and has a recognized URL scheme.
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && isKnownScheme(u.Scheme) {
		return kindURL
	}

	if len(s) > 0 && s[0] == '/' {
		return kindAbsolutePath
	}

	return kindRelative
}

func isKnownScheme(scheme string) bool {
	switch scheme {
	case "http", "https", "file", "data":
		return true
	}
	return false
}
