package providers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// sitesKey is the top-level key wrapping the provider mapping in registry files.
const sitesKey = "api_site"

// LoadFile reads a registry file and builds a Registry from it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	descs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse providers file %s: %w", path, err)
	}

	return NewRegistry(descs...)
}

// Parse decodes provider descriptors from YAML or JSON of the form
//
//	api_site:
//	  key: {name: Display Name, api: https://host/api.php/provide/vod/at/xml}
//
// The api_site wrapper is optional. Descriptors are returned in document order,
// which is why this walks yaml.Node values instead of decoding into a map.
func Parse(data []byte) ([]Descriptor, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []Descriptor{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of providers", root.Line)
	}

	sites := root
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == sitesKey {
			sites = root.Content[i+1]
			break
		}
	}
	if sites.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", sites.Line, sitesKey)
	}

	descs := make([]Descriptor, 0, len(sites.Content)/2)
	for i := 0; i+1 < len(sites.Content); i += 2 {
		keyNode, valNode := sites.Content[i], sites.Content[i+1]

		var d Descriptor
		if err := valNode.Decode(&d); err != nil {
			return nil, fmt.Errorf("provider %q: %w", keyNode.Value, err)
		}
		d.Key = keyNode.Value
		descs = append(descs, d)
	}

	return descs, nil
}
