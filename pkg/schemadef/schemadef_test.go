package schemadef_test

import (
	"testing"

	"github.com/dataflowlabs/parquetcore/pkg/schema"
	"github.com/dataflowlabs/parquetcore/pkg/schemadef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONFlatSchema(t *testing.T) {
	raw := []byte(`{
		"name": "m",
		"repetition": "required",
		"fields": [
			{"name": "x", "repetition": "required", "type": "int32"}
		]
	}`)

	s, err := schemadef.Parse(raw)
	require.NoError(t, err)
	require.Len(t, s.Leaves(), 1)
	assert.Equal(t, []string{"x"}, s.Leaves()[0].Path)
	assert.Equal(t, schema.Int32, s.Leaves()[0].Primitive)
}

func TestParseYAMLNestedSchema(t *testing.T) {
	raw := []byte(`
name: M
repetition: required
fields:
  - name: a
    repetition: optional
    fields:
      - name: b
        repetition: repeated
        fields:
          - name: c
            repetition: required
            type: int32
`)

	s, err := schemadef.Parse(raw)
	require.NoError(t, err)
	require.Len(t, s.Leaves(), 1)
	leaf := s.Leaves()[0]
	assert.Equal(t, []string{"a", "b", "c"}, leaf.Path)
	assert.Equal(t, 1, leaf.MaxRepetitionLevel)
	assert.Equal(t, 2, leaf.MaxDefinitionLevel)
}

func TestParseFixedLenByteArrayLeaf(t *testing.T) {
	raw := []byte(`{
		"name": "m",
		"repetition": "required",
		"fields": [
			{"name": "h", "repetition": "required", "type": "fixed_len_byte_array", "typeLength": 16}
		]
	}`)

	s, err := schemadef.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 16, s.Leaves()[0].TypeLength)
}

func TestParseUnrecognizedRepetitionFails(t *testing.T) {
	raw := []byte(`{"name": "m", "repetition": "sometimes", "fields": [{"name":"x","repetition":"required","type":"int32"}]}`)
	_, err := schemadef.Parse(raw)
	require.Error(t, err)
}

func TestParseUnrecognizedTypeFails(t *testing.T) {
	raw := []byte(`{"name": "m", "repetition": "required", "fields": [{"name":"x","repetition":"required","type":"decimal"}]}`)
	_, err := schemadef.Parse(raw)
	require.Error(t, err)
}
