package selector

import (
	"errors"
	"fmt"
)

// ErrNoSuitableRoom is returned by Lookup when every room is too warm.
var ErrNoSuitableRoom = errors.New("no room below the temperature limit")

// ErrInvalidRequest marks malformed request fields.
var ErrInvalidRequest = errors.New("invalid request")

// HistoryNotFoundError reports a client without stored rankings.
type HistoryNotFoundError struct {
	Client string
}

func (e *HistoryNotFoundError) Error() string {
	return fmt.Sprintf("no rankings for client %s", e.Client)
}

func NewHistoryNotFoundError(client string) *HistoryNotFoundError {
	return &HistoryNotFoundError{Client: client}
}
