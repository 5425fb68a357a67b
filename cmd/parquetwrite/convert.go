package main

import (
	"encoding/base64"
	"fmt"

	"github.com/dataflowlabs/parquetcore/pkg/parquet"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
)

// convertRecord walks root's declared fields against a decoded JSON object,
// converting every leaf's raw JSON scalar (float64/string/bool from the
// decoder) into the Go type PlainEncoder and DictionaryEncoder expect.
func convertRecord(root *schema.Node, raw map[string]interface{}) (parquet.Group, error) {
	return convertGroup(root, raw)
}

func convertGroup(node *schema.Node, raw map[string]interface{}) (parquet.Group, error) {
	out := make(parquet.Group, len(node.Children))
	for _, child := range node.Children {
		rawVal, present := raw[child.Name]
		if !present || rawVal == nil {
			continue
		}

		if child.Repetition == schema.Repeated {
			list, ok := rawVal.([]interface{})
			if !ok {
				return nil, fmt.Errorf("field %q: expected a JSON array for a repeated field", child.Name)
			}
			elems := make([]interface{}, 0, len(list))
			for _, item := range list {
				v, err := convertField(child, item)
				if err != nil {
					return nil, err
				}
				elems = append(elems, v)
			}
			out[child.Name] = elems
			continue
		}

		v, err := convertField(child, rawVal)
		if err != nil {
			return nil, err
		}
		out[child.Name] = v
	}
	return out, nil
}

func convertField(node *schema.Node, raw interface{}) (interface{}, error) {
	if node.IsLeaf {
		return convertLeafValue(node, raw)
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q: expected a JSON object", node.Name)
	}
	return convertGroup(node, m)
}

func convertLeafValue(node *schema.Node, raw interface{}) (interface{}, error) {
	switch node.Primitive {
	case schema.Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a JSON boolean", node.Name)
		}
		return b, nil

	case schema.Int32:
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a JSON number", node.Name)
		}
		return int32(f), nil

	case schema.Int64:
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a JSON number", node.Name)
		}
		return int64(f), nil

	case schema.Float:
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a JSON number", node.Name)
		}
		return float32(f), nil

	case schema.Double:
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("field %q: expected a JSON number", node.Name)
		}
		return f, nil

	case schema.Binary:
		return decodeBase64Field(node.Name, raw)

	case schema.FixedLenByteArray:
		b, err := decodeBase64Field(node.Name, raw)
		if err != nil {
			return nil, err
		}
		if len(b) != node.TypeLength {
			return nil, fmt.Errorf("field %q: expected %d bytes after base64 decoding, got %d", node.Name, node.TypeLength, len(b))
		}
		return b, nil

	case schema.Int96:
		b, err := decodeBase64Field(node.Name, raw)
		if err != nil {
			return nil, err
		}
		if len(b) != 12 {
			return nil, fmt.Errorf("field %q: INT96 requires exactly 12 bytes after base64 decoding, got %d", node.Name, len(b))
		}
		var out [12]byte
		copy(out[:], b)
		return out, nil

	default:
		return nil, fmt.Errorf("field %q: unsupported primitive type %s", node.Name, node.Primitive)
	}
}

func decodeBase64Field(name string, raw interface{}) ([]byte, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("field %q: expected a base64-encoded JSON string", name)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("field %q: invalid base64: %w", name, err)
	}
	return b, nil
}
