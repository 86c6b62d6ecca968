package websocket

import "encoding/json"

const (
	ActionMove       = "game:move"
	ActionMode       = "game:mode"
	ActionDifficulty = "game:difficulty"
	ActionRound      = "game:round"
	ActionNew        = "game:new"
	ActionState      = "game:state"
	ActionError      = "game:error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	Cell *int `json:"cell"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

type DifficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

type ErrorPayload struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}
