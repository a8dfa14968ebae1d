package controllers

import (
	"Comodin/middleware"
	"Comodin/services/poker"
	"Comodin/services/runs"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"Comodin/utils"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RunController serves saved runs. Everything under /auth acts on the run
// the token or session was issued for.
type RunController struct {
	Runs   *runs.Service
	Tokens *middleware.TokenService
}

type CreateRunRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

type LoginRunRequest struct {
	RunID      string `json:"run_id" binding:"required"`
	Passphrase string `json:"passphrase" binding:"required"`
}

type RunSession struct {
	Run       *runs.Run `json:"run"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// @Summary Start a new run
// @Description The passphrase is needed to log back into the run later
// @Tags runs
// @Accept json
// @Produce json
// @Param request body CreateRunRequest true "Passphrase"
// @Success 201 {object} RunSession
// @Failure 400 {object} object{error=string}
// @Router /runs [post]
func (rc *RunController) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	run, err := rc.Runs.Create(c.Request.Context(), req.Passphrase)
	if err != nil {
		_ = c.Error(err)
		return
	}
	rc.openSession(c, http.StatusCreated, run)
}

// @Summary Log into a saved run
// @Tags runs
// @Accept json
// @Produce json
// @Param request body LoginRunRequest true "Run id and passphrase"
// @Success 200 {object} RunSession
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /runs/login [post]
func (rc *RunController) LoginRun(c *gin.Context) {
	var req LoginRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	run, err := rc.Runs.Login(c.Request.Context(), req.RunID, req.Passphrase)
	if err != nil {
		_ = c.Error(err)
		return
	}
	rc.openSession(c, http.StatusOK, run)
}

func (rc *RunController) openSession(c *gin.Context, status int, run *runs.Run) {
	token, expires, err := rc.Tokens.Issue(run.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := middleware.RememberRun(c, run.ID); err != nil {
		log.Printf("[RUNS] Could not store run %s in the session: %v", run.ID, err)
	}
	c.JSON(status, RunSession{Run: run, Token: token, ExpiresAt: expires})
}

// @Summary Forget the run stored in the session
// @Tags runs
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/runs/logout [delete]
func (rc *RunController) LogoutRun(c *gin.Context) {
	if err := middleware.ForgetRun(c); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Get the current run
// @Tags runs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} runs.Run
// @Failure 401 {object} object{error=string}
// @Router /auth/runs/state [get]
func (rc *RunController) GetState(c *gin.Context) {
	run, err := rc.Runs.Load(c.Request.Context(), middleware.CurrentRun(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary Replace the jokers of the current run
// @Description Without joker_state the accumulated state of the run is kept
// @Tags runs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body runs.StateUpdate true "Jokers in slot order and optional state"
// @Success 200 {object} runs.Run
// @Failure 400 {object} object{error=string}
// @Router /auth/runs/state [put]
func (rc *RunController) PutState(c *gin.Context) {
	var upd runs.StateUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	run, err := rc.Runs.ReplaceJokers(c.Request.Context(), middleware.CurrentRun(c), upd)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary Buy a voucher at its listed cost
// @Tags runs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voucher slug"
// @Success 200 {object} runs.Run
// @Failure 409 {object} object{error=string}
// @Router /auth/runs/vouchers/{id} [post]
func (rc *RunController) PurchaseVoucher(c *gin.Context) {
	id, err := vouchers.ParseVoucherID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	run, err := rc.Runs.PurchaseVoucher(c.Request.Context(), middleware.CurrentRun(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary Start the round
// @Tags rounds
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{run=runs.Run,start=runs.RoundStart}
// @Router /auth/runs/round/start [post]
func (rc *RunController) StartRound(c *gin.Context) {
	run, start, err := rc.Runs.StartRound(c.Request.Context(), middleware.CurrentRun(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "start": start})
}

type CardsRequest struct {
	Cards []string `json:"cards" binding:"required"`
}

// @Summary Play a hand
// @Tags rounds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CardsRequest true "1 to 5 card codes, e.g. {\"cards\":[\"Ah\",\"Ad\"]}"
// @Success 200 {object} object{run=runs.Run,result=jokers.ScoreResult}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/runs/hands [post]
func (rc *RunController) PlayHand(c *gin.Context) {
	cards, ok := bindCards(c)
	if !ok {
		return
	}
	run, res, err := rc.Runs.PlayHand(c.Request.Context(), middleware.CurrentRun(c), poker.NewHand(cards...))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "result": res})
}

// @Summary Discard cards
// @Tags rounds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CardsRequest true "1 to 5 card codes"
// @Success 200 {object} object{run=runs.Run,outcome=jokers.Outcome}
// @Failure 409 {object} object{error=string}
// @Router /auth/runs/discards [post]
func (rc *RunController) Discard(c *gin.Context) {
	cards, ok := bindCards(c)
	if !ok {
		return
	}
	run, out, err := rc.Runs.Discard(c.Request.Context(), middleware.CurrentRun(c), cards)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "outcome": out})
}

func bindCards(c *gin.Context) ([]poker.Card, bool) {
	var req CardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return nil, false
	}
	cards, err := poker.ParseCards(req.Cards...)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return cards, true
}

// @Summary End the round
// @Description Pays the round end jokers and interest. Every third round raises the ante.
// @Tags rounds
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{run=runs.Run,end=runs.RoundEnd}
// @Router /auth/runs/round/end [post]
func (rc *RunController) EndRound(c *gin.Context) {
	run, end, err := rc.Runs.EndRound(c.Request.Context(), middleware.CurrentRun(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "end": end})
}

// @Summary Sell a joker
// @Tags runs
// @Produce json
// @Security BearerAuth
// @Param slot path int true "Slot, from 0"
// @Success 200 {object} object{run=runs.Run,sold_for=int}
// @Failure 404 {object} object{error=string}
// @Router /auth/runs/jokers/{slot} [delete]
func (rc *RunController) SellJoker(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	run, value, err := rc.Runs.SellJoker(c.Request.Context(), middleware.CurrentRun(c), slot)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "sold_for": value})
}

// @Summary Open the shop of the round
// @Tags shop
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{run=runs.Run,shop=shop.Shop}
// @Router /auth/runs/shop [get]
func (rc *RunController) GetShop(c *gin.Context) {
	run, sh, err := rc.Runs.Shop(c.Request.Context(), middleware.CurrentRun(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "shop": sh})
}

// @Summary Reroll the shop
// @Tags shop
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{run=runs.Run,shop=shop.Shop}
// @Failure 409 {object} object{error=string}
// @Router /auth/runs/shop/reroll [post]
func (rc *RunController) Reroll(c *gin.Context) {
	run, sh, err := rc.Runs.Reroll(c.Request.Context(), middleware.CurrentRun(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "shop": sh})
}

// @Summary Buy a shop item
// @Tags shop
// @Produce json
// @Security BearerAuth
// @Param item path string true "Item id"
// @Success 200 {object} object{run=runs.Run,purchase=runs.Purchase}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/runs/shop/items/{item} [post]
func (rc *RunController) Buy(c *gin.Context) {
	run, bought, err := rc.Runs.Buy(c.Request.Context(), middleware.CurrentRun(c), c.Param("item"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "purchase": bought})
}

// @Summary Show a pack bought this round
// @Tags shop
// @Produce json
// @Security BearerAuth
// @Param item path string true "Item id of the pack"
// @Success 200 {object} shop.PackContents
// @Failure 404 {object} object{error=string}
// @Router /auth/runs/shop/packs/{item} [get]
func (rc *RunController) GetPack(c *gin.Context) {
	contents, err := rc.Runs.PackContents(c.Request.Context(), middleware.CurrentRun(c), c.Param("item"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, contents)
}

// @Summary Skip the blind for a tag
// @Tags rounds
// @Produce json
// @Security BearerAuth
// @Param tag path string true "Tag slug"
// @Success 200 {object} object{run=runs.Run,skip=runs.Skip}
// @Failure 404 {object} object{error=string}
// @Router /auth/runs/skip/{tag} [post]
func (rc *RunController) SkipBlind(c *gin.Context) {
	tag, err := tags.ParseTagID(c.Param("tag"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	run, skip, err := rc.Runs.SkipBlind(c.Request.Context(), middleware.CurrentRun(c), tag)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "skip": skip})
}
