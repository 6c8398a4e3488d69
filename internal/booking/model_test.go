package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePredicates(t *testing.T) {
	tests := []struct {
		state     State
		live      bool
		cancelled bool
		terminal  bool
	}{
		{StatePending, true, false, false},
		{StateConfirmed, true, false, false},
		{StateInProgress, true, false, false},
		{StateCompleted, false, false, true},
		{StateCancelledByClient, false, true, true},
		{StateCancelledByPhotographer, false, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.True(t, tt.state.Valid())
			assert.Equal(t, tt.live, tt.state.Live())
			assert.Equal(t, tt.cancelled, tt.state.Cancelled())
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}

	assert.False(t, State("archived").Valid())
	assert.False(t, State("").Valid())
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range AllStates {
		if !from.Terminal() {
			continue
		}
		for _, to := range AllStates {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestLocation_ValueAndScan(t *testing.T) {
	lat, lng := 59.91, 10.75
	loc := Location{Address: "Karl Johans gate 1", Lat: &lat, Lng: &lng}

	v, err := loc.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"Karl Johans gate 1","lat":59.91,"lng":10.75}`, v.(string))

	var fromBytes Location
	require.NoError(t, fromBytes.Scan([]byte(v.(string))))
	assert.Equal(t, loc, fromBytes)

	var fromString Location
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, loc, fromString)

	var empty Location
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, Location{}, empty)

	assert.Error(t, empty.Scan(42))
}
