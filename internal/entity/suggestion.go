package entity

// SuggestionRequest is what the move-suggestion service is asked on an agent turn.
type SuggestionRequest struct {
	Board       Board      `json:"board"`
	Agent       Player     `json:"agent"`
	Opponent    Player     `json:"opponent"`
	Difficulty  Difficulty `json:"difficulty"`
	Instruction string     `json:"instruction"`
	Prompt      string     `json:"prompt"`
}

// Suggestion is the service answer: a single board index.
type Suggestion struct {
	Move int `json:"move"`
}
