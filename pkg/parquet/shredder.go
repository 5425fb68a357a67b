package parquet

import (
	"github.com/dataflowlabs/parquetcore/pkg/errors"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
)

// Value is anything a leaf can hold: nil, bool, int32, int64, [12]byte
// (INT96), float32, float64, []byte, or string (accepted as a convenience
// alias for BINARY/FIXED_LEN_BYTE_ARRAY, converted at write time).
type Value = any

// Group is a record or nested group: field name to value. A REPEATED
// field's value is a []any of element values (Group for a repeated group,
// a leaf Value for a repeated leaf).
type Group map[string]Value

// RecordSource is the minimal record iterator a Writer consumes. Real
// schema-IDL binding (protobuf, Avro, Thrift) is an out-of-scope adapter
// concern; callers wanting that bridge their own type into Group.
type RecordSource interface {
	Next() (Group, bool, error)
}

// SchemaSource produces the immutable schema tree a Writer shreds records
// against. schema.Schema itself satisfies this.
type SchemaSource = schema.Source

// emitFunc receives one (value|nil, rep, def) triple for the leaf at
// leafIdx.
type emitFunc func(leafIdx int, value Value, rep, def int) error

// RecordShredder walks a Group against a schema tree and emits, per leaf,
// the sequence of triples Dremel shredding produces, per §4.9.
type RecordShredder struct {
	schema     *schema.Schema
	validating bool

	// repDepth[l][i] is the count of REPEATED ancestors in leaf l's
	// PathAncestors[0..i] inclusive, precomputed once per leaf since
	// PathAncestors never changes for the schema's lifetime.
	repDepth [][]int
}

// NewRecordShredder creates a shredder for schema. When validating is
// true, every emitted triple is checked against the leaf's maxRep/maxDef
// bound before being handed to emit, per §7/§8.
func NewRecordShredder(s *schema.Schema, validating bool) *RecordShredder {
	rs := &RecordShredder{schema: s, validating: validating}
	leaves := s.Leaves()
	rs.repDepth = make([][]int, len(leaves))
	for i, leaf := range leaves {
		depths := make([]int, len(leaf.PathAncestors))
		count := 0
		for j, r := range leaf.PathAncestors {
			if r == schema.Repeated {
				count++
			}
			depths[j] = count
		}
		rs.repDepth[i] = depths
	}
	return rs
}

// Shred walks record, calling emit once per (leaf, triple) pair, in
// schema leaf order.
func (rs *RecordShredder) Shred(record Group, emit emitFunc) error {
	for i, leaf := range rs.schema.Leaves() {
		if err := rs.walk(record, leaf, rs.repDepth[i], 0, 0, 0, i, emit); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RecordShredder) walk(container Group, leaf *schema.LeafDescriptor, repDepth []int, depth, rep, def, leafIdx int, emit emitFunc) error {
	name := leaf.Path[depth]
	kind := leaf.PathAncestors[depth]
	isLast := depth == len(leaf.Path)-1

	raw, present := container[name]
	missing := !present || raw == nil

	switch kind {
	case schema.Required:
		if missing {
			return errors.New(errors.ErrorTypeInvalidRecord, "missing required field").
				WithDetail("path", pathTo(leaf.Path, depth))
		}
		if isLast {
			return rs.emit(leafIdx, raw, rep, def, leaf, emit)
		}
		child, ok := raw.(Group)
		if !ok {
			return errors.New(errors.ErrorTypeInvalidRecord, "expected group value").
				WithDetail("path", pathTo(leaf.Path, depth))
		}
		return rs.walk(child, leaf, repDepth, depth+1, rep, def, leafIdx, emit)

	case schema.Optional:
		if missing {
			return rs.emit(leafIdx, nil, rep, def, leaf, emit)
		}
		newDef := def + 1
		if isLast {
			return rs.emit(leafIdx, raw, rep, newDef, leaf, emit)
		}
		child, ok := raw.(Group)
		if !ok {
			return errors.New(errors.ErrorTypeInvalidRecord, "expected group value").
				WithDetail("path", pathTo(leaf.Path, depth))
		}
		return rs.walk(child, leaf, repDepth, depth+1, rep, newDef, leafIdx, emit)

	case schema.Repeated:
		if missing {
			return rs.emit(leafIdx, nil, rep, def, leaf, emit)
		}
		elems, ok := raw.([]any)
		if !ok {
			return errors.New(errors.ErrorTypeInvalidRecord, "expected repeated slice value").
				WithDetail("path", pathTo(leaf.Path, depth))
		}
		if len(elems) == 0 {
			return rs.emit(leafIdx, nil, rep, def, leaf, emit)
		}
		newDef := def + 1
		thisRepLevel := repDepth[depth]
		for i, elem := range elems {
			elemRep := rep
			if i > 0 {
				elemRep = thisRepLevel
			}
			if isLast {
				if err := rs.emit(leafIdx, elem, elemRep, newDef, leaf, emit); err != nil {
					return err
				}
				continue
			}
			child, ok := elem.(Group)
			if !ok {
				return errors.New(errors.ErrorTypeInvalidRecord, "expected group element in repeated field").
					WithDetail("path", pathTo(leaf.Path, depth))
			}
			if err := rs.walk(child, leaf, repDepth, depth+1, elemRep, newDef, leafIdx, emit); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.New(errors.ErrorTypeConfigurationError, "unrecognized repetition kind")
	}
}

func (rs *RecordShredder) emit(leafIdx int, value Value, rep, def int, leaf *schema.LeafDescriptor, emit emitFunc) error {
	if rs.validating {
		if rep < 0 || rep > leaf.MaxRepetitionLevel || def < 0 || def > leaf.MaxDefinitionLevel {
			return errors.New(errors.ErrorTypeInvalidRecord, "shredded triple violates rep/def bound").
				WithDetail("path", pathTo(leaf.Path, len(leaf.Path)-1)).
				WithDetail("rep", rep).WithDetail("def", def)
		}
		if value != nil && def != leaf.MaxDefinitionLevel {
			return errors.New(errors.ErrorTypeInvalidRecord, "present value must have def == maxDef").
				WithDetail("path", pathTo(leaf.Path, len(leaf.Path)-1))
		}
	}
	return emit(leafIdx, value, rep, def)
}

func pathTo(path []string, depth int) string {
	out := ""
	for i := 0; i <= depth && i < len(path); i++ {
		if i > 0 {
			out += "."
		}
		out += path[i]
	}
	return out
}
