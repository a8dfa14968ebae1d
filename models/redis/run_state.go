package redis

import "encoding/json"

// RunState is the hot copy of a run kept in Redis between requests
type RunState struct {
	RunID        string          `json:"run_id"`        // Matches run_snapshots.id
	Version      uint64          `json:"version"`       // Bumped on every save
	Seed         uint64          `json:"seed"`          // Matches run_snapshots.seed
	Money        int             `json:"money"`         // Matches run_snapshots.money
	Ante         int             `json:"ante"`          // Matches run_snapshots.ante
	Round        int             `json:"round"`         // Matches run_snapshots.round
	Jokers       json.RawMessage `json:"jokers"`        // Joker ids in slot order
	JokerState   json.RawMessage `json:"joker_state"`   // Serialized joker state store
	VoucherState json.RawMessage `json:"voucher_state"` // Serialized voucher game state
	Tags         json.RawMessage `json:"tags"`          // Pending skip tag context
	Progress     json.RawMessage `json:"progress"`      // Hands and discards of the current round
}
