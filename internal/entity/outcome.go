package entity

import (
	"encoding/json"
	"fmt"
)

const (
	StatusInProgress = "in_progress"
	StatusWin        = "win"
	StatusDraw       = "draw"
)

type OutcomeKind uint8

const (
	KindInProgress OutcomeKind = iota
	KindWin
	KindDraw
)

// Outcome is the result of evaluating a board. The zero value is InProgress.
// A Win always carries its winner and exactly one line; other kinds carry neither.
type Outcome struct {
	kind   OutcomeKind
	winner Player
	line   WinningLine
}

func InProgress() Outcome {
	return Outcome{kind: KindInProgress}
}

func Win(winner Player, line WinningLine) Outcome {
	return Outcome{kind: KindWin, winner: winner, line: line}
}

func Draw() Outcome {
	return Outcome{kind: KindDraw}
}

func (that Outcome) Kind() OutcomeKind {
	return that.kind
}

func (that Outcome) IsTerminal() bool {
	return that.kind != KindInProgress
}

func (that Outcome) Winner() (Player, bool) {
	if that.kind != KindWin {
		return PlayerX, false
	}

	return that.winner, true
}

func (that Outcome) Line() (WinningLine, bool) {
	if that.kind != KindWin {
		return WinningLine{}, false
	}

	return that.line, true
}

func (that Outcome) Status() string {
	switch that.kind {
	case KindWin:
		return StatusWin
	case KindDraw:
		return StatusDraw
	default:
		return StatusInProgress
	}
}

func (that Outcome) String() string {
	if that.kind == KindWin {
		return fmt.Sprintf("win(%s, %v)", that.winner, that.line)
	}

	return that.Status()
}

type outcomeJSON struct {
	Status string       `json:"status"`
	Winner *Player      `json:"winner,omitempty"`
	Line   *WinningLine `json:"line,omitempty"`
}

func (that Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{Status: that.Status()}
	if that.kind == KindWin {
		winner, line := that.winner, that.line
		out.Winner = &winner
		out.Line = &line
	}

	return json.Marshal(out)
}
