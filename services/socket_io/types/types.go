package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer holds the socket.io server and the socket of every run that
// is connected
type SocketServer struct {
	Sio_server *socket.Server
	// run id -> socket
	RunConnections map[string]*socket.Socket
	mutex          sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		RunConnections: make(map[string]*socket.Socket),
	}
}

// AddConnection replaces any older socket of the same run
func (s *SocketServer) AddConnection(runID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.RunConnections[runID] = client
}

func (s *SocketServer) RemoveConnection(runID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.RunConnections, runID)
}

func (s *SocketServer) GetConnection(runID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.RunConnections[runID]
	return client, exists
}

func (s *SocketServer) Connections() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.RunConnections)
}
