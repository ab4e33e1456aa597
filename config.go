package dino

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// methodCaser upper-cases HTTP method strings found in tenant project
// config the way spec.md §6 requires ("Method strings are uppercased and
// validated"), using golang.org/x/text instead of strings.ToUpper so the
// transform is locale-correct for the rare non-ASCII method typo.
var methodCaser = cases.Upper(language.Und)

// allowedMethods is the nine verbs a MethodRoute can hold a slot for.
var allowedMethods = [...]string{
	"GET", "HEAD", "DELETE", "OPTIONS", "PATCH", "POST", "PUT", "TRACE", "CONNECT",
}

func isAllowedMethod(m string) bool {
	for _, am := range allowedMethods {
		if am == m {
			return true
		}
	}
	return false
}

// RouteHandler names the handler for one HTTP method of one route pattern.
type RouteHandler struct {
	Method  string `mapstructure:"method" yaml:"method"`
	Handler string `mapstructure:"handler" yaml:"handler"`
}

// RouteEntry is one URL-pattern entry of a tenant's route table. A slice
// (rather than a map) preserves the YAML document's source order, which
// matters for the ambiguous-route detection performed by NewRouter.
type RouteEntry struct {
	Pattern  string         `mapstructure:"pattern" yaml:"-"`
	Handlers []RouteHandler `mapstructure:"handlers" yaml:"-"`
}

// ProjectConfig is the decoded form of a tenant's project configuration
// (spec.md §6): a name and an ordered route table mapping URL patterns to
// method/handler pairs.
type ProjectConfig struct {
	Name   string       `mapstructure:"name"`
	Routes []RouteEntry `mapstructure:"routes"`
}

// ParseProjectConfig parses a project configuration document (YAML, per
// spec.md §6) and validates every method string against the nine allowed
// HTTP verbs.
//
// The YAML shape is:
//
//	name: myapp
//	routes:
//	  /api/hello/:id:
//	    - method: get
//	      handler: hello1
func ParseProjectConfig(data []byte) (*ProjectConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("dino: failed to parse project config: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("dino: empty project config")
	}

	root := doc.Content[0]

	raw := map[string]interface{}{}
	if err := root.Decode(&raw); err != nil {
		return nil, fmt.Errorf("dino: failed to decode project config: %w", err)
	}

	cfg := &ProjectConfig{}

	for i := 0; i < len(root.Content); i += 2 {
		key := root.Content[i].Value
		val := root.Content[i+1]

		switch key {
		case "name":
			if err := val.Decode(&cfg.Name); err != nil {
				return nil, fmt.Errorf("dino: invalid name: %w", err)
			}
		case "routes":
			entries, err := decodeRouteTable(val)
			if err != nil {
				return nil, err
			}
			cfg.Routes = entries
		}
	}

	return cfg, nil
}

// decodeRouteTable walks an ordered YAML mapping node of
// pattern -> []{method, handler} into a source-order-preserving slice,
// using mapstructure to fill each RouteHandler from the generically
// decoded list-of-maps so field typos surface as decode errors rather
// than silent zero values.
func decodeRouteTable(node *yaml.Node) ([]RouteEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("dino: routes must be a mapping of pattern to handler list")
	}

	entries := make([]RouteEntry, 0, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		pattern := node.Content[i].Value
		listNode := node.Content[i+1]

		var rawHandlers []map[string]interface{}
		if err := listNode.Decode(&rawHandlers); err != nil {
			return nil, fmt.Errorf("dino: invalid handler list for route %q: %w", pattern, err)
		}

		var handlers []RouteHandler
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{ErrorUnused: true, Result: &handlers})
		if err != nil {
			return nil, fmt.Errorf("dino: invalid handler entry for route %q: %w", pattern, err)
		}
		if err := dec.Decode(rawHandlers); err != nil {
			return nil, fmt.Errorf("dino: invalid handler entry for route %q: %w", pattern, err)
		}

		for i, h := range handlers {
			m := methodCaser.String(h.Method)
			if !isAllowedMethod(m) {
				return nil, fmt.Errorf("dino: route %q: method %q is not one of the nine allowed HTTP verbs", pattern, h.Method)
			}
			handlers[i].Method = m
		}

		entries = append(entries, RouteEntry{Pattern: pattern, Handlers: handlers})
	}

	return entries, nil
}
