// Package configload loads a system's configuration tree from a YAML
// file on disk, for the cmd/commix front-end. The core system package
// never reads files itself: it only ever sees the
// map[string]any tree this package produces.
package configload

import (
	"fmt"
	"os"

	gruntworkerrors "github.com/gruntwork-io/go-commons/errors"
	"gopkg.in/yaml.v3"
)

// ComponentLiteral is the on-disk shape of a component constructor
// call, the YAML analogue of a system.ComCall:
//
//	svc/http-server:
//	 kind: svc/http-server
//	 config:
//	   port: 8080
//	   logger: { ref: [svc/logger] }
//
// A bare "ref: [...]" map is recognized as a system.Ref at load time
// (see normalizeRefs); everything else is passed through untouched and
// left for system.Expand to interpret (auto-wrap, com-call literals).
type ComponentLiteral struct {
	Kind string `yaml:"kind"`
	Config map[string]any `yaml:"config"`
	Extra map[string]any `yaml:"extra"`
}

// Load reads path as YAML and returns the raw tree, with "ref" markers
// normalized to system.Ref values (system.Expand takes care of
// everything else — ComCall/auto-wrap recognition).
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gruntworkerrors.WithStackTrace(fmt.Errorf("reading %s: %w", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, gruntworkerrors.WithStackTrace(fmt.Errorf("parsing %s: %w", path, err))
	}

	out, err := normalizeRefs(raw)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}
