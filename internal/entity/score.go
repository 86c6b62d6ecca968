package entity

// Score is the cumulative tally of won rounds per player.
type Score struct {
	X int `json:"X"`
	O int `json:"O"`
}

func (that *Score) Add(player Player) {
	if player == PlayerO {
		that.O++
		return
	}
	that.X++
}

func (that Score) Of(player Player) int {
	if player == PlayerO {
		return that.O
	}
	return that.X
}
