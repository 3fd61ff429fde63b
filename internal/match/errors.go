// internal/match/errors.go
package match

import "errors"

// Error taxonomy surfaced to transports. Handlers map these onto HTTP status
// codes and websocket error payloads.
var (
	ErrRoomNotFound        = errors.New("match: room not found")
	ErrInvalidState        = errors.New("match: operation invalid for current room state")
	ErrCapacityExceeded    = errors.New("match: room is full")
	ErrAuthorizationDenied = errors.New("match: not authorized")
)
