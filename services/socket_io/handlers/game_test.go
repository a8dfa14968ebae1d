package handlers

import (
	"Comodin/services/jokers"
	"Comodin/services/runs"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	event   string
	payload any
}

type recorder struct {
	events []sent
}

func (r *recorder) emit(event string, payload any) {
	r.events = append(r.events, sent{event, payload})
}

func (r *recorder) last(t *testing.T) sent {
	t.Helper()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

func newRun(t *testing.T, ids ...jokers.JokerID) (*runs.Service, string) {
	t.Helper()
	svc := runs.NewService(runs.NewMemoryStore(), runs.NewMemoryCache(), jokers.NewCatalog(),
		vouchers.NewRegistry(), tags.NewRegistry(), jokers.DefaultMaxValue)
	run, err := svc.Create(context.Background(), "pass")
	require.NoError(t, err)
	_, err = svc.ReplaceJokers(context.Background(), run.ID, runs.StateUpdate{Jokers: ids})
	require.NoError(t, err)
	return svc, run.ID
}

func cardsArg(codes ...string) []interface{} {
	cards := make([]interface{}, len(codes))
	for i, c := range codes {
		cards[i] = c
	}
	return []interface{}{map[string]interface{}{"cards": cards}}
}

func TestHandlePlayHand(t *testing.T) {
	svc, runID := newRun(t, jokers.TheJoker)
	rec := &recorder{}
	play := HandlePlayHand(svc, rec.emit, runID)

	play(cardsArg("Ah", "Ad", "3c")...)
	got := rec.last(t)
	require.Equal(t, "hand_scored", got.event)
	res := got.payload.(gin.H)["result"].(jokers.ScoreResult)
	assert.Equal(t, int64(192), res.Total)

	t.Run("bad card", func(t *testing.T) {
		play(cardsArg("Zz")...)
		got := rec.last(t)
		assert.Equal(t, "error", got.event)
		assert.Equal(t, gin.H{"error": "invalid request", "event": "hand_scored"}, got.payload)
	})

	t.Run("no payload", func(t *testing.T) {
		play()
		assert.Equal(t, "error", rec.last(t).event)
	})

	t.Run("out of hands", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			play(cardsArg("2c")...)
			require.Equal(t, "hand_scored", rec.last(t).event)
		}
		play(cardsArg("2c")...)
		got := rec.last(t)
		assert.Equal(t, gin.H{"error": "operation not allowed in current state", "event": "hand_scored"}, got.payload)
	})
}

func TestRoundEvents(t *testing.T) {
	svc, runID := newRun(t, jokers.GoldenJoker)
	rec := &recorder{}

	HandleStartRound(svc, rec.emit, runID)()
	assert.Equal(t, "round_started", rec.last(t).event)

	HandleDiscard(svc, rec.emit, runID)(cardsArg("2c", "3d")...)
	assert.Equal(t, "discarded", rec.last(t).event)

	HandleEndRound(svc, rec.emit, runID)()
	got := rec.last(t)
	require.Equal(t, "round_ended", got.event)
	end := got.payload.(gin.H)["end"].(runs.RoundEnd)
	assert.Equal(t, 4, end.Outcome.Money)

	HandleGetState(svc, rec.emit, runID)()
	run := rec.last(t).payload.(gin.H)["run"].(*runs.Run)
	assert.Equal(t, 2, run.Round)
}

func TestShopEvents(t *testing.T) {
	svc, runID := newRun(t)
	rec := &recorder{}

	HandleReroll(svc, rec.emit, runID)()
	assert.Equal(t, "error", rec.last(t).event, "the shop is not open yet")

	HandleGetShop(svc, rec.emit, runID)()
	got := rec.last(t)
	require.Equal(t, "shop", got.event)

	HandleReroll(svc, rec.emit, runID)()
	got = rec.last(t)
	require.Equal(t, "shop", got.event)
	run := got.payload.(gin.H)["run"].(*runs.Run)
	assert.Equal(t, 95, run.Game.Money)

	HandleBuy(svc, rec.emit, runID)(map[string]interface{}{"item": "nothing"})
	assert.Equal(t, gin.H{"error": "resource not found", "event": "purchased"}, rec.last(t).payload)
}

func TestHandleSkipBlind(t *testing.T) {
	svc, runID := newRun(t)
	rec := &recorder{}

	HandleSkipBlind(svc, rec.emit, runID)(map[string]interface{}{"tag": "economy"})
	got := rec.last(t)
	require.Equal(t, "blind_skipped", got.event)
	skip := got.payload.(gin.H)["skip"].(runs.Skip)
	assert.Equal(t, 40, skip.Result.Money)

	HandleSkipBlind(svc, rec.emit, runID)(map[string]interface{}{"tag": "nope"})
	assert.Equal(t, "error", rec.last(t).event)
}
