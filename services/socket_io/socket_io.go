package socket_io

import (
	"Comodin/middleware"
	"Comodin/services/runs"
	"Comodin/services/socket_io/handlers"
	socketio_types "Comodin/services/socket_io/types"
	socketio_utils "Comodin/services/socket_io/utils"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	eiolog "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts socket.io on router. Clients authenticate with the run token
// and drive the run through events instead of HTTP calls.
func (sio *MySocketServer) Start(router *gin.Engine, svc *runs.Service, tokens *middleware.TokenService, debug bool) {
	eiolog.DEBUG = debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.RunConnections = make(map[string]*socket.Socket)
	server := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		ok, runID := socketio_utils.VerifyRunConnection(client, tokens)
		if !ok {
			client.Disconnect(true)
			return
		}
		server.AddConnection(runID, client)
		log.Printf("[SOCKET] Run %s connected on %s", runID, client.Id())

		emit := func(event string, payload any) {
			client.Emit(event, payload)
		}

		client.On("get_state", handlers.HandleGetState(svc, emit, runID))
		client.On("start_round", handlers.HandleStartRound(svc, emit, runID))
		client.On("play_hand", handlers.HandlePlayHand(svc, emit, runID))
		client.On("discard", handlers.HandleDiscard(svc, emit, runID))
		client.On("end_round", handlers.HandleEndRound(svc, emit, runID))
		client.On("get_shop", handlers.HandleGetShop(svc, emit, runID))
		client.On("reroll_shop", handlers.HandleReroll(svc, emit, runID))
		client.On("buy_item", handlers.HandleBuy(svc, emit, runID))
		client.On("skip_blind", handlers.HandleSkipBlind(svc, emit, runID))

		client.On("disconnecting", handlers.HandleDisconnecting(runID, server))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)
	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	log.Printf("[SOCKET] Socket server started")
}
