package apperror

import "errors"

var (
	ErrInvalidMoveAttempt = errors.New("invalid move attempt")
	ErrGameFinished       = errors.New("game is already finished")
	ErrInvalidCell        = errors.New("invalid cell index")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrResolutionInFlight = errors.New("agent move is being resolved")
)

var (
	ErrSuggestionUnconfigured  = errors.New("move suggestion service is not configured")
	ErrSuggestionTransport     = errors.New("move suggestion service request failed")
	ErrSuggestionInvalidAnswer = errors.New("move suggestion service returned an invalid answer")
)
