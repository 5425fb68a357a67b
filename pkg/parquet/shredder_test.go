package parquet_test

import (
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/parquet"
	"github.com/dataflowlabs/parquetcore/pkg/schema"
	"github.com/stretchr/testify/require"
)

// buildNestedSchema constructs message M { optional group a { repeated
// group b { required int32 c; }}}, matching the shredding scenario.
func buildNestedSchema(t *testing.T) *schema.Schema {
	t.Helper()
	root := schema.Group("M", schema.Required,
		schema.Group("a", schema.Optional,
			schema.Group("b", schema.Repeated,
				schema.Leaf("c", schema.Required, schema.Int32),
			),
		),
	)
	s, err := schema.Build(root)
	require.NoError(t, err)
	return s
}

type triple struct {
	value    parquet.Value
	rep, def int
}

func shredOne(t *testing.T, rs *parquet.RecordShredder, rec parquet.Group) []triple {
	t.Helper()
	var got []triple
	err := rs.Shred(rec, func(leafIdx int, v parquet.Value, rep, def int) error {
		got = append(got, triple{v, rep, def})
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestShredNestedRepeatedGroupPresent(t *testing.T) {
	s := buildNestedSchema(t)
	rs := parquet.NewRecordShredder(s, false)

	rec := parquet.Group{
		"a": parquet.Group{
			"b": []any{
				parquet.Group{"c": int32(1)},
				parquet.Group{"c": int32(2)},
			},
		},
	}

	got := shredOne(t, rs, rec)
	require.Equal(t, []triple{
		{int32(1), 0, 2},
		{int32(2), 1, 2},
	}, got)
}

func TestShredEmptyRepeatedGroup(t *testing.T) {
	s := buildNestedSchema(t)
	rs := parquet.NewRecordShredder(s, false)

	rec := parquet.Group{"a": parquet.Group{"b": []any{}}}
	got := shredOne(t, rs, rec)
	require.Equal(t, []triple{{nil, 0, 1}}, got)
}

func TestShredNullOptionalGroup(t *testing.T) {
	s := buildNestedSchema(t)
	rs := parquet.NewRecordShredder(s, false)

	rec := parquet.Group{"a": nil}
	got := shredOne(t, rs, rec)
	require.Equal(t, []triple{{nil, 0, 0}}, got)
}

func TestShredMissingOptionalGroup(t *testing.T) {
	s := buildNestedSchema(t)
	rs := parquet.NewRecordShredder(s, false)

	got := shredOne(t, rs, parquet.Group{})
	require.Equal(t, []triple{{nil, 0, 0}}, got)
}

func TestShredMissingRequiredFieldFails(t *testing.T) {
	root := schema.Group("m", schema.Required, schema.Leaf("x", schema.Required, schema.Int32))
	s, err := schema.Build(root)
	require.NoError(t, err)
	rs := parquet.NewRecordShredder(s, false)

	err = rs.Shred(parquet.Group{}, func(int, parquet.Value, int, int) error { return nil })
	require.Error(t, err)
}

func TestShredValidatingRejectsOutOfBoundLevels(t *testing.T) {
	root := schema.Group("m", schema.Required, schema.Leaf("x", schema.Required, schema.Int32))
	s, err := schema.Build(root)
	require.NoError(t, err)
	rs := parquet.NewRecordShredder(s, true)

	// x is REQUIRED so this record is legal; validating mode should not
	// reject legitimate triples.
	err = rs.Shred(parquet.Group{"x": int32(7)}, func(int, parquet.Value, int, int) error { return nil })
	require.NoError(t, err)
}

func TestShredTwoRecordsSequentially(t *testing.T) {
	root := schema.Group("m", schema.Required, schema.Leaf("x", schema.Required, schema.Int32))
	s, err := schema.Build(root)
	require.NoError(t, err)
	rs := parquet.NewRecordShredder(s, false)

	a := shredOne(t, rs, parquet.Group{"x": int32(1)})
	b := shredOne(t, rs, parquet.Group{"x": int32(2)})
	require.Equal(t, []triple{{int32(1), 0, 0}}, a)
	require.Equal(t, []triple{{int32(2), 0, 0}}, b)
}
