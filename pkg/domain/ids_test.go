package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID(" 5 ")
	require.NoError(t, err)
	assert.Equal(t, ID(5), id)

	_, err = ParseID("five")
	assert.Error(t, err)
}

func TestIDUnmarshalAcceptsNumberAndString(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ID
	}{
		{name: "number", body: `{"donorId":5}`, want: 5},
		{name: "string", body: `{"donorId":"5"}`, want: 5},
		{name: "float", body: `{"donorId":5.0}`, want: 5},
		{name: "null", body: `{"donorId":null}`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in DonationInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.want, in.DonorID)
		})
	}
}

func TestIDUnmarshalRejectsGarbage(t *testing.T) {
	var in DonationInput
	assert.Error(t, json.Unmarshal([]byte(`{"donorId":"abc"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"donorId":true}`), &in))
}

func TestIDMarshalsAsNumber(t *testing.T) {
	raw, err := json.Marshal(Donation{ID: 3, DonorID: 7})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":3`)
	assert.Contains(t, string(raw), `"donorId":7`)
}

func TestIDUnmarshalRejectsOutOfRange(t *testing.T) {
	for _, body := range []string{
		`{"donorId":1e30}`,
		`{"donorId":-1e30}`,
		`{"donorId":9223372036854775808}`,
	} {
		var in DonationInput
		err := json.Unmarshal([]byte(body), &in)
		assert.ErrorContains(t, err, "out of range", body)
		assert.Zero(t, in.DonorID, body)
	}

	var in DonationInput
	require.NoError(t, json.Unmarshal([]byte(`{"donorId":1e3}`), &in))
	assert.Equal(t, ID(1000), in.DonorID)
}
