package bundler

import (
	"fmt"
	"regexp"
	"strings"
)

// importSpecRe matches bare and relative import specifiers inside
// resolved module source: import X from "spec", import "spec",
// import("spec"), export ... from "spec". Adapted from the
// please_js/esmdev package's importSpecRe, generalized to also catch
// dynamic import() and re-export forms.
var importSpecRe = regexp.MustCompile(`(?:from\s+|import\s*\(\s*|import\s+|export\s+\*\s+from\s+)["']([^"']+)["']`)

// Bundle walks the static import graph starting at entrySpecifier and
// produces a single self-contained script: every reachable module is
// wrapped in a CommonJS-style factory function keyed by its resolved
// ModulePath, plus a minimal `require`/module registry runtime and a
// final `require(entryPath)` expression — satisfying spec.md §1's
// "module bundler that prepares a single self-contained script from a
// source tree."
//
// The produced script is itself the expression a Worker evaluates
// (spec.md §4.4): its last statement must evaluate to the handlers
// object, so entrySpecifier's module is expected to `export default` an
// object of handler functions.
func (r *Resolver) Bundle(base, entrySpecifier string) (string, error) {
	modules := map[string]string{}
	order := []string{}

	var visit func(base, specifier string) (string, error)
	visit = func(base, specifier string) (string, error) {
		path, err := r.Resolve(base, specifier, false)
		if err != nil {
			return "", err
		}
		if _, ok := modules[path]; ok {
			return path, nil
		}
		if classify(path, false) == kindCore {
			modules[path] = wrapCoreModule(path)
			order = append(order, path)
			return path, nil
		}

		source, err := r.Load(path, false)
		if err != nil {
			return "", err
		}

		// Reserve the slot before recursing so a dependency cycle
		// resolves to the (possibly still-empty) module rather than
		// looping forever.
		modules[path] = ""
		order = append(order, path)

		rewritten := source
		deps := importSpecRe.FindAllStringSubmatch(source, -1)
		for _, m := range deps {
			spec := m[1]
			depPath, err := visit(path, spec)
			if err != nil {
				return "", err
			}
			rewritten = strings.ReplaceAll(rewritten, `"`+spec+`"`, `"`+depPath+`"`)
			rewritten = strings.ReplaceAll(rewritten, `'`+spec+`'`, `'`+depPath+`'`)
		}

		modules[path] = wrapModule(path, rewritten)
		return path, nil
	}

	entryPath, err := visit(base, entrySpecifier)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("(function(){\n")
	b.WriteString("var __dino_modules__ = {};\n")
	b.WriteString("var __dino_cache__ = {};\n")
	b.WriteString("function __dino_require__(path){\n")
	b.WriteString("  if (__dino_cache__[path]) return __dino_cache__[path].exports;\n")
	b.WriteString("  var mod = { exports: {} };\n")
	b.WriteString("  __dino_cache__[path] = mod;\n")
	b.WriteString("  __dino_modules__[path](mod, mod.exports, __dino_require__);\n")
	b.WriteString("  return mod.exports;\n")
	b.WriteString("}\n")
	for _, path := range order {
		b.WriteString(modules[path])
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "return __dino_require__(%q).default;\n", entryPath)
	b.WriteString("})()")

	return b.String(), nil
}

// wrapModule wraps one resolved module's (import-rewritten) plain-script
// source in a CommonJS-style factory registered under path.
func wrapModule(path, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "__dino_modules__[%q] = function(module, exports, require){\n", path)
	b.WriteString(cjsify(source))
	b.WriteString("\n};\n")
	return b.String()
}

// wrapCoreModule registers a core module's source (which itself may use
// `export default`) under its bare core name.
func wrapCoreModule(name string) string {
	src, _ := LoadCore(name)
	return wrapModule(name, cjsify(src))
}

// importStmtRe matches the import forms a module factory body needs
// rewritten to a require() call: default, namespace, named, combined
// default+named, and bare side-effect imports. Specifiers are expected to
// already have been rewritten to resolved ModulePaths by Bundle's visit
// closure before cjsify runs.
var importStmtRe = regexp.MustCompile(
	`import\s+(?:` +
		`([A-Za-z_$][\w$]*)\s*,\s*\{([^}]*)\}` + // default + named
		`|([A-Za-z_$][\w$]*)` + // default only
		`|\*\s+as\s+([A-Za-z_$][\w$]*)` + // namespace
		`|\{([^}]*)\}` + // named only
		`)\s+from\s+["']([^"']+)["']\s*;?` +
		`|import\s+["']([^"']+)["']\s*;?`, // bare side-effect
)

// cjsify does a line-oriented ESM->CJS rewrite sufficient for the
// bundler's conventionally simple module shapes (straight-line import
// declarations and a single `export default`): it is not a general ESM
// transform (that work belongs to the Transpiler contract for typed
// sources), but it covers every import form spec.md §3's Core Module
// Table and worked examples actually use.
func cjsify(source string) string {
	out := importStmtRe.ReplaceAllStringFunc(source, func(m string) string {
		g := importStmtRe.FindStringSubmatch(m)
		switch {
		case g[1] != "" && g[6] != "": // default + named
			return fmt.Sprintf("var %s = require(%q).default; var {%s} = require(%q);", g[1], g[6], g[2], g[6])
		case g[3] != "" && g[6] != "": // default only
			return fmt.Sprintf("var %s = require(%q).default;", g[3], g[6])
		case g[4] != "" && g[6] != "": // namespace
			return fmt.Sprintf("var %s = require(%q);", g[4], g[6])
		case g[5] != "" && g[6] != "": // named only
			return fmt.Sprintf("var {%s} = require(%q);", strings.TrimSpace(g[5]), g[6])
		case g[7] != "": // bare side-effect
			return fmt.Sprintf("require(%q);", g[7])
		default:
			return m
		}
	})
	return strings.Replace(out, "export default", "module.exports.default =", 1)
}
