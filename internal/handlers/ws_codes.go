// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the room and draft handlers. These
// give clients more specific reasons for closure than the standard codes.
const (
	BadSubprotocolError   websocket.StatusCode = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError websocket.StatusCode = 3001 // Provided auth token was invalid or expired.
	InvalidUserIDError    websocket.StatusCode = 3002 // User ID derived from token was malformed or invalid.
	InvalidRoomIDError    websocket.StatusCode = 3003 // Target room ID in the WS URL does not exist or is invalid.
	InvalidDraftIDError   websocket.StatusCode = 3004 // Target draft ID in the WS URL does not exist or is invalid.
)
