package handlers

import (
	socketio_types "Comodin/services/socket_io/types"
	"log"
)

// HandleDisconnecting drops the socket of the run. The run itself stays
// saved and the client can reconnect with the same token.
func HandleDisconnecting(runID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		sio.RemoveConnection(runID)
		log.Printf("[SOCKET] Run %s disconnected, %d still connected", runID, sio.Connections())
	}
}
