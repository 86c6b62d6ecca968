package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownGameMode   = errors.New("unknown game mode")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// GameMode decides whether the agent side is played by the move resolver.
type GameMode uint8

const (
	PlayerVsPlayer GameMode = iota
	PlayerVsAgent
)

func (that GameMode) String() string {
	if that == PlayerVsAgent {
		return "pve"
	}
	return "pvp"
}

func (that GameMode) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *GameMode) UnmarshalText(text []byte) error {
	mode, err := ParseGameMode(string(text))
	if err != nil {
		return err
	}

	*that = mode

	return nil
}

func ParseGameMode(value string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pvp":
		return PlayerVsPlayer, nil
	case "pve", "pva":
		return PlayerVsAgent, nil
	default:
		return PlayerVsPlayer, fmt.Errorf("%w: %q", ErrUnknownGameMode, value)
	}
}

type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (that Difficulty) String() string {
	switch that {
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "easy"
	}
}

// Next cycles easy -> medium -> hard -> easy.
func (that Difficulty) Next() Difficulty {
	return (that + 1) % 3
}

func (that Difficulty) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Difficulty) UnmarshalText(text []byte) error {
	difficulty, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}

	*that = difficulty

	return nil
}

func ParseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, value)
	}
}
