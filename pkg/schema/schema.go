// Package schema describes the typed tree that a record is shredded
// against: which fields exist, their repetition, and the primitive type of
// every leaf. It has no knowledge of encoding or page layout.
package schema

import (
	"github.com/dataflowlabs/parquetcore/pkg/errors"
)

// Repetition is a field's cardinality relative to its parent.
type Repetition int

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// PrimitiveType is the tagged variant of leaf value types this writer
// understands. There is deliberately no virtual-method hierarchy per leaf
// type; callers switch on this value at the I/O boundary.
type PrimitiveType int

const (
	Bool PrimitiveType = iota
	Int32
	Int64
	Int96
	Float
	Double
	Binary
	FixedLenByteArray
)

func (t PrimitiveType) String() string {
	switch t {
	case Bool:
		return "BOOL"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Binary:
		return "BINARY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Node is either a Group (Children non-nil, IsLeaf false) or a Leaf
// (IsLeaf true, Primitive meaningful). The root node's Repetition is
// ignored; every other node must declare one.
type Node struct {
	Name       string
	Repetition Repetition
	Children   []*Node
	Primitive  PrimitiveType
	TypeLength int // meaningful only for FixedLenByteArray leaves
	IsLeaf     bool
}

// Group constructs an internal schema node with the given children.
func Group(name string, rep Repetition, children ...*Node) *Node {
	return &Node{Name: name, Repetition: rep, Children: children}
}

// Leaf constructs a primitive schema node.
func Leaf(name string, rep Repetition, primitive PrimitiveType) *Node {
	return &Node{Name: name, Repetition: rep, Primitive: primitive, IsLeaf: true}
}

// FixedLenByteArrayLeaf constructs a FIXED_LEN_BYTE_ARRAY leaf of the given
// declared length.
func FixedLenByteArrayLeaf(name string, rep Repetition, length int) *Node {
	return &Node{Name: name, Repetition: rep, Primitive: FixedLenByteArray, TypeLength: length, IsLeaf: true}
}

// LeafDescriptor is the flattened, DFS-ordered view of one leaf used by the
// shredder, the column store, and the metadata codec. Ancestors are
// referenced by repetition value, root-to-leaf, not by pointer, so the
// descriptor can live in a flat arena independent of the tree's lifetime.
type LeafDescriptor struct {
	Path               []string
	Primitive          PrimitiveType
	TypeLength         int
	MaxRepetitionLevel int
	MaxDefinitionLevel int
	PathAncestors      []Repetition // one entry per non-root ancestor, root-to-leaf, including the leaf itself
}

// Schema is the immutable, validated schema tree plus its flattened leaves.
type Schema struct {
	Root   *Node
	leaves []*LeafDescriptor
}

// Leaves returns the schema's leaves in depth-first, schema-declared order.
// This is the order the RecordShredder, ColumnStore, and MetadataCodec all
// key off.
func (s *Schema) Leaves() []*LeafDescriptor { return s.leaves }

// Build validates a raw schema tree and derives every leaf's maxRep/maxDef.
// It raises ConfigurationError on a duplicate field path (two siblings with
// the same name, leaf or group), a nil child, or a leaf with an
// unrecognized primitive type.
func Build(root *Node) (*Schema, error) {
	if root == nil {
		return nil, errors.New(errors.ErrorTypeConfigurationError, "schema root must not be nil")
	}
	if root.IsLeaf {
		return nil, errors.New(errors.ErrorTypeConfigurationError, "schema root must be a group")
	}

	s := &Schema{Root: root}
	seen := make(map[string]struct{})

	var walk func(n *Node, path []string, ancestors []Repetition, rep, def int) error
	walk = func(n *Node, path []string, ancestors []Repetition, rep, def int) error {
		if n == nil {
			return errors.New(errors.ErrorTypeConfigurationError, "schema node must not be nil").
				WithDetail("path", pathString(path))
		}

		curRep, curDef := rep, def
		var curAncestors []Repetition
		if len(path) > 0 { // root's own Repetition is not counted
			key := pathString(path)
			if _, dup := seen[key]; dup {
				return errors.New(errors.ErrorTypeConfigurationError, "duplicate field path").
					WithDetail("path", key)
			}
			seen[key] = struct{}{}

			curAncestors = append(append([]Repetition{}, ancestors...), n.Repetition)
			if n.Repetition == Repeated {
				curRep++
			}
			if n.Repetition != Required {
				curDef++
			}
		}

		if n.IsLeaf {
			if err := validatePrimitive(n.Primitive); err != nil {
				return err.WithDetail("path", pathString(path))
			}

			s.leaves = append(s.leaves, &LeafDescriptor{
				Path:               append([]string{}, path...),
				Primitive:          n.Primitive,
				TypeLength:         n.TypeLength,
				MaxRepetitionLevel: curRep,
				MaxDefinitionLevel: curDef,
				PathAncestors:      curAncestors,
			})
			return nil
		}

		if len(n.Children) == 0 {
			return errors.New(errors.ErrorTypeConfigurationError, "group has no children").
				WithDetail("path", pathString(path))
		}
		for _, child := range n.Children {
			if err := walk(child, append(path, child.Name), curAncestors, curRep, curDef); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, nil, nil, 0, 0); err != nil {
		return nil, err
	}
	return s, nil
}

func validatePrimitive(p PrimitiveType) *errors.Error {
	switch p {
	case Bool, Int32, Int64, Int96, Float, Double, Binary, FixedLenByteArray:
		return nil
	default:
		return errors.New(errors.ErrorTypeConfigurationError, "unrecognized primitive type")
	}
}

func pathString(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// Source produces the immutable schema tree a Writer shreds records
// against.
type Source interface {
	Schema() *Schema
}
