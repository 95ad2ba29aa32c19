package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaFixture struct {
	NumEvents int      `json:"num_events"`
	Columns   []string `json:"columns"`
}

func TestJSONRoundTrip(t *testing.T) {
	in := schemaFixture{NumEvents: 42, Columns: []string{"Tau_pt", "met"}}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out schemaFixture
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	require.NotNil(t, Default)
	assert.Equal(t, "json", Default.Name())
}

func TestMustMarshal_NilCodecUsesDefault(t *testing.T) {
	data := MustMarshal(nil, map[string]int{"n": 1})
	assert.JSONEq(t, `{"n":1}`, string(data))
}
