package domain

import (
	"gopkg.in/yaml.v3"
)

// ValueFromYAML converts a yaml.v3 node tree into a Value, keeping key order.
// JSON documents parse as YAML, so this covers both formats.
func ValueFromYAML(node *yaml.Node) (*Value, error) {
	c := &yamlConverter{}
	return c.valueFromYAML(node, "", 0)
}

const (
	maxYAMLDepth = 256
	// maxYAMLNodes bounds alias expansion.
	maxYAMLNodes = 100000
)

type yamlConverter struct {
	nodes int
}

func (c *yamlConverter) valueFromYAML(node *yaml.Node, path string, depth int) (*Value, error) {
	if node == nil {
		return Null(), nil
	}
	if depth > maxYAMLDepth {
		return nil, NewShapeError(path, "nesting exceeds %d levels", maxYAMLDepth)
	}
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return nil, NewShapeError(path, "document expands to more than %d nodes", maxYAMLNodes)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return c.valueFromYAML(node.Content[0], path, depth+1)

	case yaml.AliasNode:
		return c.valueFromYAML(node.Alias, path, depth+1)

	case yaml.SequenceNode:
		list := List()
		for i, child := range node.Content {
			item, err := c.valueFromYAML(child, IndexPath(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		return list, nil

	case yaml.MappingNode:
		m := Map()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, NewShapeError(path, "object keys must be scalars (line %d)", keyNode.Line)
			}
			val, err := c.valueFromYAML(valNode, JoinPath(path, keyNode.Value), depth+1)
			if err != nil {
				return nil, err
			}
			m.Fields = append(m.Fields, F(keyNode.Value, val))
		}
		return m, nil

	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, &ConfigShapeError{Path: path, Msg: "invalid boolean", Err: err}
			}
			return Bool(b), nil
		case "!!int", "!!float":
			return Number(node.Value), nil
		default:
			return String(node.Value), nil
		}
	}

	return nil, NewShapeError(path, "unsupported YAML node at line %d", node.Line)
}
