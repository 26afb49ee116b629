package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinutes_UnmarshalJSON(t *testing.T) {
	cases := map[string]Minutes{
		`30`:     30,
		`"30"`:   30,
		`" 45 "`: 45,
		`30.5`:   31,
		`"2.4"`:  2,
		`null`:   0,
		`""`:     0,
	}
	for in, want := range cases {
		var m Minutes
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, want, m, in)
	}

	for _, in := range []string{`"abc"`, `true`, `[1]`, `1e400`} {
		var m Minutes
		assert.Error(t, json.Unmarshal([]byte(in), &m), in)
	}
}

func TestTicket_UnmarshalJSON(t *testing.T) {
	cases := map[string]Ticket{
		`"T-1"`: "T-1",
		`123`:   "123",
		`12.50`: "12.50",
		`null`:  "",
	}
	for in, want := range cases {
		var tk Ticket
		require.NoError(t, json.Unmarshal([]byte(in), &tk), in)
		assert.Equal(t, want, tk, in)
	}

	var tk Ticket
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &tk))
}
