package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Player is one of the two sides of a game. X always moves first.
type Player uint8

const (
	PlayerX Player = iota
	PlayerO
)

// Mark returns the cell value this player places on the board.
func (that Player) Mark() Cell {
	if that == PlayerO {
		return MarkO
	}
	return MarkX
}

func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Player) String() string {
	if that == PlayerO {
		return "O"
	}
	return "X"
}

func (that Player) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Player) UnmarshalText(text []byte) error {
	player, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}

	*that = player

	return nil
}

func ParsePlayer(value string) (Player, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return PlayerX, fmt.Errorf("%w: %q", ErrUnknownPlayer, value)
	}
}
