package jokers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStoreLazyDefaults(t *testing.T) {
	store := NewStateStore(0)

	_, ok := store.Get(SpareTrousers)
	assert.False(t, ok, "absent state is not an error")
	assert.Equal(t, 1.0, store.Accumulated(CeremonialDagger, 1))

	st := store.Update(SpareTrousers, func(s JokerState) JokerState {
		s.AccumulatedValue += 2
		return s
	})
	assert.Equal(t, 2.0, st.AccumulatedValue)
	assert.True(t, store.Has(SpareTrousers))
	assert.Equal(t, 1, store.Len())
}

func TestStateStoreClampsToMax(t *testing.T) {
	store := NewStateStore(100)
	store.Update(Castle, func(s JokerState) JokerState {
		s.AccumulatedValue = 500
		return s
	})
	assert.Equal(t, 100.0, store.Accumulated(Castle, 0))
}

func TestStateStoreVersionMovesOnWrites(t *testing.T) {
	store := NewStateStore(0)
	v0 := store.Version()
	store.Set(Runner, NewJokerState(15))
	v1 := store.Version()
	store.Remove(Runner)
	v2 := store.Version()
	store.Remove(Runner)

	assert.Greater(t, v1, v0)
	assert.Greater(t, v2, v1)
	assert.Equal(t, v2, store.Version(), "removing nothing is not a write")
}

func TestSerializeStateRoundTrip(t *testing.T) {
	store := NewStateStore(0)
	st := NewJokerState(12.5)
	require.NoError(t, st.SetCustom("flag", true))
	require.NoError(t, st.SetCustom("count", 3))
	store.Set(Photograph, st)

	raw, err := store.SerializeState(Photograph)
	require.NoError(t, err)

	other := NewStateStore(0)
	require.NoError(t, other.DeserializeState(Photograph, raw))

	got, ok := other.Get(Photograph)
	require.True(t, ok)
	assert.Equal(t, st, got)
	assert.True(t, got.CustomBool("flag"))

	var count int
	found, err := got.Custom("count", &count)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, count)
}

func TestSerializeStateAbsentIsDefault(t *testing.T) {
	raw, err := NewStateStore(0).SerializeState(Hologram)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accumulated_value":0}`, string(raw))
}

func TestDeserializeStateLeavesStateOnError(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"accumulated_value":`},
		{"wrong type", `{"accumulated_value":"many"}`},
		{"out of bounds", `{"accumulated_value":2e9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStateStore(0)
			store.Set(Marble, NewJokerState(50))

			err := store.DeserializeState(Marble, json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidState))
			assert.Equal(t, 50.0, store.Accumulated(Marble, 0))
		})
	}
}

func TestStateStoreJSON(t *testing.T) {
	store := NewStateStore(0)
	store.Set(SpareTrousers, NewJokerState(4))
	store.Set(GreenJoker, NewJokerState(2))

	data, err := json.Marshal(store)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"spare_trousers"`)

	restored := NewStateStore(0)
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, store.Snapshot(), restored.Snapshot())

	t.Run("unknown joker keeps old states", func(t *testing.T) {
		err := json.Unmarshal([]byte(`{"not_a_joker":{"accumulated_value":1}}`), restored)
		require.Error(t, err)
		assert.Equal(t, 4.0, restored.Accumulated(SpareTrousers, 0))
	})
}
