package handlers

import (
	"Comodin/services/poker"
	"Comodin/services/runs"
	"Comodin/services/tags"
	socketio_utils "Comodin/services/socket_io/utils"
	"Comodin/utils"
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Emit sends one event back to the client of the run
type Emit func(event string, payload any)

const eventTimeout = 10 * time.Second

type cardsPayload struct {
	Cards []string `json:"cards"`
}

type itemPayload struct {
	Item string `json:"item"`
}

type tagPayload struct {
	Tag string `json:"tag"`
}

// handle decodes the payload, runs op and emits its answer as reply. Errors
// are emitted as "error" with the sanitized message only.
func handle[T any](runID, reply string, emit Emit, op func(ctx context.Context, req T) (gin.H, error)) func(args ...interface{}) {
	return func(args ...interface{}) {
		var req T
		if _, empty := any(req).(struct{}); !empty {
			if err := socketio_utils.DecodeArg(args, &req); err != nil {
				fail(runID, reply, emit, utils.ErrBadRequest.Wrap(err))
				return
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		out, err := op(ctx, req)
		if err != nil {
			fail(runID, reply, emit, err)
			return
		}
		emit(reply, out)
	}
}

func fail(runID, reply string, emit Emit, err error) {
	app := utils.Sanitize(err)
	log.Printf("[SOCKET] Run %s, %s failed: %v", runID, reply, err)
	emit("error", gin.H{"error": app.Message, "event": reply})
}

func HandleGetState(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "state", emit, func(ctx context.Context, _ struct{}) (gin.H, error) {
		run, err := svc.Load(ctx, runID)
		return gin.H{"run": run}, err
	})
}

func HandleStartRound(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "round_started", emit, func(ctx context.Context, _ struct{}) (gin.H, error) {
		run, start, err := svc.StartRound(ctx, runID)
		return gin.H{"run": run, "start": start}, err
	})
}

// HandlePlayHand scores {"cards": ["Ah", "Ad"]} and answers "hand_scored"
func HandlePlayHand(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "hand_scored", emit, func(ctx context.Context, req cardsPayload) (gin.H, error) {
		cards, err := poker.ParseCards(req.Cards...)
		if err != nil {
			return nil, err
		}
		run, res, err := svc.PlayHand(ctx, runID, poker.NewHand(cards...))
		if err != nil {
			return nil, err
		}
		log.Printf("[SOCKET] Run %s played %s for %d", runID, res.Evaluation.Rank, res.Total)
		return gin.H{"run": run, "result": res}, nil
	})
}

func HandleDiscard(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "discarded", emit, func(ctx context.Context, req cardsPayload) (gin.H, error) {
		cards, err := poker.ParseCards(req.Cards...)
		if err != nil {
			return nil, err
		}
		run, out, err := svc.Discard(ctx, runID, cards)
		return gin.H{"run": run, "outcome": out}, err
	})
}

func HandleEndRound(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "round_ended", emit, func(ctx context.Context, _ struct{}) (gin.H, error) {
		run, end, err := svc.EndRound(ctx, runID)
		return gin.H{"run": run, "end": end}, err
	})
}

func HandleGetShop(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "shop", emit, func(ctx context.Context, _ struct{}) (gin.H, error) {
		run, sh, err := svc.Shop(ctx, runID)
		return gin.H{"run": run, "shop": sh}, err
	})
}

func HandleReroll(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "shop", emit, func(ctx context.Context, _ struct{}) (gin.H, error) {
		run, sh, err := svc.Reroll(ctx, runID)
		return gin.H{"run": run, "shop": sh}, err
	})
}

func HandleBuy(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "purchased", emit, func(ctx context.Context, req itemPayload) (gin.H, error) {
		run, bought, err := svc.Buy(ctx, runID, req.Item)
		return gin.H{"run": run, "purchase": bought}, err
	})
}

func HandleSkipBlind(svc *runs.Service, emit Emit, runID string) func(args ...interface{}) {
	return handle(runID, "blind_skipped", emit, func(ctx context.Context, req tagPayload) (gin.H, error) {
		tag, err := tags.ParseTagID(req.Tag)
		if err != nil {
			return nil, err
		}
		run, skip, err := svc.SkipBlind(ctx, runID, tag)
		return gin.H{"run": run, "skip": skip}, err
	})
}
