package jokers

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
)

// DefaultMaxValue bounds accumulated values so pathological runs cannot grow them forever
const DefaultMaxValue = 1_000_000

// JokerState is the only place effect-relevant joker counters live
type JokerState struct {
	AccumulatedValue float64                    `json:"accumulated_value"`
	CustomData       map[string]json.RawMessage `json:"custom_data,omitempty"`
}

func NewJokerState(base float64) JokerState {
	return JokerState{AccumulatedValue: base}
}

func (s JokerState) Clone() JokerState {
	out := JokerState{AccumulatedValue: s.AccumulatedValue}
	if s.CustomData != nil {
		out.CustomData = make(map[string]json.RawMessage, len(s.CustomData))
		for k, v := range s.CustomData {
			out.CustomData[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func (s *JokerState) SetCustom(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error marshaling custom field %s: %w", key, err)
	}
	if s.CustomData == nil {
		s.CustomData = make(map[string]json.RawMessage)
	}
	s.CustomData[key] = data
	return nil
}

// Custom decodes a custom field into out, false when the key is absent
func (s JokerState) Custom(key string, out any) (bool, error) {
	raw, ok := s.CustomData[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("error unmarshaling custom field %s: %w", key, err)
	}
	return true, nil
}

// CustomBool reads a boolean flag, absent or malformed reads as false
func (s JokerState) CustomBool(key string) bool {
	var v bool
	if ok, err := s.Custom(key, &v); !ok || err != nil {
		return false
	}
	return v
}

func (s JokerState) validate(max float64) error {
	if math.IsNaN(s.AccumulatedValue) || math.IsInf(s.AccumulatedValue, 0) {
		return fmt.Errorf("%w: accumulated value is not finite", ErrInvalidState)
	}
	if math.Abs(s.AccumulatedValue) > max {
		return fmt.Errorf("%w: accumulated value %g exceeds %g", ErrInvalidState, s.AccumulatedValue, max)
	}
	return nil
}

// StateStore maps joker species to their state. Absent means default state.
// One lock guards the map so the store can be shared through a pointer by
// every hook of a scoring pass.
type StateStore struct {
	mu       sync.Mutex
	states   map[JokerID]JokerState
	maxValue float64
	version  uint64
}

// NewStateStore with maxValue <= 0 uses DefaultMaxValue
func NewStateStore(maxValue float64) *StateStore {
	if maxValue <= 0 {
		maxValue = DefaultMaxValue
	}
	return &StateStore{
		states:   make(map[JokerID]JokerState),
		maxValue: maxValue,
	}
}

func (s *StateStore) MaxValue() float64 {
	return s.maxValue
}

func (s *StateStore) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-s.maxValue, math.Min(s.maxValue, v))
}

// Get returns a copy of the state, false when the joker has none yet
func (s *StateStore) Get(id JokerID) (JokerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return JokerState{}, false
	}
	return st.Clone(), true
}

func (s *StateStore) GetOrDefault(id JokerID, base float64) JokerState {
	if st, ok := s.Get(id); ok {
		return st
	}
	return NewJokerState(base)
}

func (s *StateStore) Accumulated(id JokerID, base float64) float64 {
	return s.GetOrDefault(id, base).AccumulatedValue
}

func (s *StateStore) Has(id JokerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[id]
	return ok
}

// Update is an atomic read-modify-write starting from a zero state when absent
func (s *StateStore) Update(id JokerID, fn func(JokerState) JokerState) JokerState {
	return s.UpdateFrom(id, 0, fn)
}

// UpdateFrom is Update with base as the lazily created accumulated value
func (s *StateStore) UpdateFrom(id JokerID, base float64, fn func(JokerState) JokerState) JokerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.states[id]
	if !ok {
		current = NewJokerState(base)
	}
	next := fn(current.Clone())
	next.AccumulatedValue = s.clamp(next.AccumulatedValue)
	s.states[id] = next
	s.version++
	return next.Clone()
}

func (s *StateStore) Set(id JokerID, state JokerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state = state.Clone()
	state.AccumulatedValue = s.clamp(state.AccumulatedValue)
	s.states[id] = state
	s.version++
}

// Reset drops custom data and puts the accumulated value back to base
func (s *StateStore) Reset(id JokerID, base float64) {
	s.Set(id, NewJokerState(base))
}

// Remove destroys the state, used when the joker leaves the collection
func (s *StateStore) Remove(id JokerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; ok {
		delete(s.states, id)
		s.version++
	}
}

func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Version changes on every write, the condition cache keys on it
func (s *StateStore) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *StateStore) Snapshot() map[JokerID]JokerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[JokerID]JokerState, len(s.states))
	for id, st := range s.states {
		out[id] = st.Clone()
	}
	return out
}

// Restore replaces every state, nothing changes if any entry is invalid
func (s *StateStore) Restore(snapshot map[JokerID]JokerState) error {
	for id, st := range snapshot {
		if !id.IsValid() {
			return fmt.Errorf("%w: %d", ErrUnknownJoker, int(id))
		}
		if err := st.validate(s.maxValue); err != nil {
			return fmt.Errorf("joker %s: %w", id, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[JokerID]JokerState, len(snapshot))
	for id, st := range snapshot {
		s.states[id] = st.Clone()
	}
	s.version++
	return nil
}

func (s *StateStore) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

func (s *StateStore) UnmarshalJSON(data []byte) error {
	var snapshot map[JokerID]JokerState
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if s.states == nil {
		s.states = make(map[JokerID]JokerState)
	}
	if s.maxValue <= 0 {
		s.maxValue = DefaultMaxValue
	}
	return s.Restore(snapshot)
}

// SerializeState encodes one joker's state, the default state when absent
func (s *StateStore) SerializeState(id JokerID) (json.RawMessage, error) {
	st := s.GetOrDefault(id, 0)
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("error serializing %s state: %w", id, err)
	}
	return data, nil
}

// DeserializeState restores one joker's state. On error the stored state is untouched.
func (s *StateStore) DeserializeState(id JokerID, raw json.RawMessage) error {
	var st JokerState
	if err := json.Unmarshal(raw, &st); err != nil {
		return fmt.Errorf("%w: joker %s: %v", ErrInvalidState, id, err)
	}
	if err := st.validate(s.maxValue); err != nil {
		return fmt.Errorf("joker %s: %w", id, err)
	}
	s.Set(id, st)
	return nil
}
