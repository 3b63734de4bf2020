package loader

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/specvital/twconfig/pkg/domain"
)

// parseData reads a JSON or YAML document into an ordered Value.
func parseData(source []byte) (*domain.Value, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, domain.NewShapeError("", "empty configuration file")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(source, &node); err != nil {
		return nil, &domain.ConfigShapeError{Msg: "cannot parse config source", Err: err}
	}
	return domain.ValueFromYAML(&node)
}
