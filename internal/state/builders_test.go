package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/restflow/internal/config"
)

func TestJSONBuilder_BuildInputState(t *testing.T) {
	t.Parallel()

	res := userResource()
	payload := []byte(`{
		"id": "user-1",
		"attributes": {
			"name": "alice",
			"profile": {"age": 42},
			"undeclared": true
		}
	}`)

	rs, err := NewJSONBuilder().BuildInputState(res, &Request{Payload: payload})

	require.NoError(t, err)
	require.NotNil(t, rs.Attributes)
	assert.Equal(t, cty.StringVal("alice"), rs.Attributes.Child("name").Value)
	age := rs.Attributes.Child("profile").Child("age").Value
	assert.True(t, age.RawEquals(cty.NumberIntVal(42)), "expected age 42, got %#v", age)
	assert.Nil(t, rs.Attributes.Child("undeclared"), "names outside the schema should be dropped")
	require.NotNil(t, rs.Identifier)
	assert.Equal(t, cty.StringVal("user-1"), rs.Identifier.Value)
	assert.Nil(t, rs.Relationships, "a payload without relationships should leave the collection absent")
}

func TestJSONBuilder_BuildInputState_PathIDOverridesPayload(t *testing.T) {
	t.Parallel()

	res := userResource()
	payload := []byte(`{"id": "from-payload", "attributes": {"name": "alice"}}`)

	rs, err := NewJSONBuilder().BuildInputState(res, &Request{
		ResourceID: "from-path",
		Payload:    payload,
	})

	require.NoError(t, err)
	require.NotNil(t, rs.Identifier)
	assert.Equal(t, cty.StringVal("from-path"), rs.Identifier.Value)
}

func TestJSONBuilder_BuildInputState_EmptyPayload(t *testing.T) {
	t.Parallel()

	res := userResource()

	rs, err := NewJSONBuilder().BuildInputState(res, &Request{ResourceID: "user-1"})

	require.NoError(t, err)
	assert.Nil(t, rs.Attributes)
	assert.Nil(t, rs.Relationships)
	require.NotNil(t, rs.Identifier)
	assert.Equal(t, cty.StringVal("user-1"), rs.Identifier.Value)
}

func TestJSONBuilder_BuildInputState_RejectsNonObjectPayload(t *testing.T) {
	t.Parallel()

	res := userResource()

	_, err := NewJSONBuilder().BuildInputState(res, &Request{Payload: []byte(`[1, 2]`)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON object")
}

func TestJSONBuilder_BuildInputState_MalformedPayload(t *testing.T) {
	t.Parallel()

	res := userResource()

	_, err := NewJSONBuilder().BuildInputState(res, &Request{Payload: []byte(`{"attributes":`)})

	require.Error(t, err)
}

func TestJSONBuilder_BuildOutputState(t *testing.T) {
	t.Parallel()

	res := userResource()
	merged := Merged{
		config.CollectionAttributes: cty.ObjectVal(map[string]cty.Value{
			"name": cty.StringVal("alice"),
		}),
		config.CollectionIdentifier: cty.StringVal("user-1"),
	}

	rs, err := NewJSONBuilder().BuildOutputState(res, merged)

	require.NoError(t, err)
	require.NotNil(t, rs.Attributes)
	assert.Equal(t, cty.StringVal("alice"), rs.Attributes.Child("name").Value)
	require.NotNil(t, rs.Identifier)
	assert.Equal(t, cty.StringVal("user-1"), rs.Identifier.Value)
	assert.Nil(t, rs.Relationships)
}
