package socketio_utils

import (
	"Comodin/middleware"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

var (
	ErrMissingAuth = errors.New("missing authorization token")
	ErrMissingArgs = errors.New("missing event payload")
)

// RunFromHandshake reads the run id out of the "authorization" field of the
// handshake auth data. The "Bearer " prefix is optional.
func RunFromHandshake(auth any, tokens *middleware.TokenService) (string, error) {
	authData, ok := auth.(map[string]interface{})
	if !ok {
		return "", ErrMissingAuth
	}
	raw, ok := authData["authorization"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingAuth
	}
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	claims, err := tokens.Validate(raw)
	if err != nil {
		return "", err
	}
	return claims.RunID, nil
}

// VerifyRunConnection tells the client why it is refused
func VerifyRunConnection(client *socket.Socket, tokens *middleware.TokenService) (bool, string) {
	runID, err := RunFromHandshake(client.Handshake().Auth, tokens)
	if err != nil {
		log.Printf("[SOCKET] Refused connection %s: %v", client.Id(), err)
		client.Emit("error", gin.H{
			"error": "Authentication failed. Set the run token on the 'authorization' field of the auth data.",
		})
		return false, ""
	}
	return true, runID
}

// DecodeArg reads the first event argument into out. Clients send plain
// objects, which arrive as generic maps.
func DecodeArg(args []interface{}, out any) error {
	if len(args) < 1 || args[0] == nil {
		return ErrMissingArgs
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingArgs, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}
