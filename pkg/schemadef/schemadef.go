// Package schemadef parses a JSON or YAML description of a schema tree
// into the pkg/schema node types a Writer shreds records against. The
// description format mirrors schema.Node one-to-one: a group has "fields",
// a leaf has "type" (and "typeLength" for FIXED_LEN_BYTE_ARRAY).
package schemadef

import (
	"github.com/dataflowlabs/parquetcore/pkg/errors"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
	"gopkg.in/yaml.v3"
)

// nodeDef is the on-disk shape of one schema node. YAML unmarshals valid
// JSON too, so a single Parse handles both formats.
type nodeDef struct {
	Name       string    `yaml:"name"`
	Repetition string    `yaml:"repetition"`
	Type       string    `yaml:"type"`
	TypeLength int       `yaml:"typeLength"`
	Fields     []nodeDef `yaml:"fields"`
}

// Parse reads a schema description and builds a validated schema.Schema.
func Parse(raw []byte) (*schema.Schema, error) {
	var root nodeDef
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfigurationError, "parse schema description")
	}

	node, err := toNode(root)
	if err != nil {
		return nil, err
	}
	return schema.Build(node)
}

func toNode(d nodeDef) (*schema.Node, error) {
	rep, err := parseRepetition(d.Repetition)
	if err != nil {
		return nil, err
	}

	if len(d.Fields) > 0 {
		children := make([]*schema.Node, 0, len(d.Fields))
		for _, f := range d.Fields {
			child, err := toNode(f)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return schema.Group(d.Name, rep, children...), nil
	}

	primitive, err := parsePrimitive(d.Type)
	if err != nil {
		return nil, err
	}
	if primitive == schema.FixedLenByteArray {
		return schema.FixedLenByteArrayLeaf(d.Name, rep, d.TypeLength), nil
	}
	return schema.Leaf(d.Name, rep, primitive), nil
}

func parseRepetition(s string) (schema.Repetition, error) {
	switch s {
	case "required":
		return schema.Required, nil
	case "optional":
		return schema.Optional, nil
	case "repeated":
		return schema.Repeated, nil
	default:
		return 0, errors.New(errors.ErrorTypeConfigurationError, "unrecognized repetition").
			WithDetail("repetition", s)
	}
}

func parsePrimitive(s string) (schema.PrimitiveType, error) {
	switch s {
	case "bool":
		return schema.Bool, nil
	case "int32":
		return schema.Int32, nil
	case "int64":
		return schema.Int64, nil
	case "int96":
		return schema.Int96, nil
	case "float":
		return schema.Float, nil
	case "double":
		return schema.Double, nil
	case "binary":
		return schema.Binary, nil
	case "fixed_len_byte_array":
		return schema.FixedLenByteArray, nil
	default:
		return 0, errors.New(errors.ErrorTypeConfigurationError, "unrecognized primitive type").
			WithDetail("type", s)
	}
}
