package controllers

import (
	"Comodin/services/filters"
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/runs"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"Comodin/utils"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// EngineController serves the registries and stateless scoring. It never
// touches a saved run.
type EngineController struct {
	Catalog  *jokers.Catalog
	Tags     *tags.Registry
	Vouchers *vouchers.Registry
	Filters  *filters.Registry

	MaxStateValue      float64
	ConditionCacheSize int
}

// @Summary Liveness check
// @Tags network
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary List jokers
// @Tags jokers
// @Produce json
// @Success 200 {array} jokers.Definition
// @Router /jokers [get]
func (ec *EngineController) ListJokers(c *gin.Context) {
	c.JSON(http.StatusOK, ec.Catalog.Definitions())
}

// @Summary Get a joker by slug
// @Tags jokers
// @Produce json
// @Param id path string true "Joker slug, e.g. supernova"
// @Success 200 {object} jokers.Definition
// @Failure 404 {object} object{error=string}
// @Router /jokers/{id} [get]
func (ec *EngineController) GetJoker(c *gin.Context) {
	id, err := jokers.ParseJokerID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	def, err := ec.Catalog.Definition(id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// @Summary List skip tags
// @Description With ante, only the tags that can be offered at that ante
// @Tags tags
// @Produce json
// @Param ante query int false "Current ante"
// @Success 200 {array} tags.Definition
// @Router /tags [get]
func (ec *EngineController) ListTags(c *gin.Context) {
	raw := c.Query("ante")
	if raw == "" {
		c.JSON(http.StatusOK, ec.Tags.Definitions())
		return
	}
	ante, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, ec.Tags.Available(ante))
}

// @Summary Get a skip tag by slug
// @Tags tags
// @Produce json
// @Param id path string true "Tag slug, e.g. economy"
// @Success 200 {object} tags.Definition
// @Failure 404 {object} object{error=string}
// @Router /tags/{id} [get]
func (ec *EngineController) GetTag(c *gin.Context) {
	id, err := tags.ParseTagID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	def, err := ec.Tags.Definition(id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// @Summary List vouchers
// @Tags vouchers
// @Produce json
// @Success 200 {array} vouchers.Definition
// @Router /vouchers [get]
func (ec *EngineController) ListVouchers(c *gin.Context) {
	c.JSON(http.StatusOK, ec.Vouchers.Definitions())
}

// @Summary Get a voucher by slug
// @Tags vouchers
// @Produce json
// @Param id path string true "Voucher slug, e.g. overstock"
// @Success 200 {object} vouchers.Definition
// @Failure 404 {object} object{error=string}
// @Router /vouchers/{id} [get]
func (ec *EngineController) GetVoucher(c *gin.Context) {
	id, err := vouchers.ParseVoucherID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	def, err := ec.Vouchers.Definition(id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, def)
}

type FilterInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// @Summary List card filters
// @Tags filters
// @Produce json
// @Success 200 {array} FilterInfo
// @Router /filters [get]
func (ec *EngineController) ListFilters(c *gin.Context) {
	names := ec.Filters.Names()
	out := make([]FilterInfo, 0, len(names))
	for _, name := range names {
		f, err := ec.Filters.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, FilterInfo{Name: name, Description: f.Description()})
	}
	c.JSON(http.StatusOK, out)
}

type ApplyFilterRequest struct {
	Filter  string                `json:"filter" binding:"required"`
	Cards   []string              `json:"cards"`
	Context filters.FilterContext `json:"context"`
}

// @Summary Run a filter expression over cards
// @Description Expressions combine filter names with and, or, not and parentheses
// @Tags filters
// @Accept json
// @Produce json
// @Param request body ApplyFilterRequest true "Filter and cards, e.g. {\"filter\":\"face and not hearts\",\"cards\":[\"Kh\",\"Qs\"]}"
// @Success 200 {object} object{cards=[]poker.Card}
// @Failure 400 {object} object{error=string}
// @Router /filters/apply [post]
func (ec *EngineController) ApplyFilter(c *gin.Context) {
	var req ApplyFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	cards, err := poker.ParseCards(req.Cards...)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if req.Context.Properties == nil {
		req.Context.Properties = map[string]string{}
	}
	matched, err := ec.Filters.Apply(req.Filter, cards, req.Context)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": matched})
}

type ScoreRequest struct {
	Hand       []string               `json:"hand" binding:"required"`
	Jokers     []jokers.JokerID       `json:"jokers"`
	JokerState json.RawMessage        `json:"joker_state,omitempty"`
	HandCounts map[poker.HandRank]int `json:"hand_counts,omitempty"`
	Money      int                    `json:"money"`
	Ante       int                    `json:"ante"`
	Round      int                    `json:"round"`
	Seed       uint64                 `json:"seed"`
}

type ScoreResponse struct {
	Result     jokers.ScoreResult `json:"result"`
	Money      int                `json:"money"`
	JokerState *jokers.StateStore `json:"joker_state"`
}

// @Summary Score a hand without a saved run
// @Description Jokers are applied in the order given. The joker state after scoring is returned so callers can keep it.
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body ScoreRequest true "Hand and jokers, e.g. {\"hand\":[\"Ah\",\"Ad\"],\"jokers\":[\"joker\"]}"
// @Success 200 {object} ScoreResponse
// @Failure 400 {object} object{error=string}
// @Router /score [post]
func (ec *EngineController) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(utils.ErrBadRequest.Wrap(err))
		return
	}
	cards, err := parseHand(req.Hand)
	if err != nil {
		_ = c.Error(err)
		return
	}
	owned, err := ec.Catalog.NewAll(req.Jokers)
	if err != nil {
		_ = c.Error(err)
		return
	}

	state := jokers.NewStateStore(ec.MaxStateValue)
	if len(req.JokerState) > 0 {
		if err := json.Unmarshal(req.JokerState, state); err != nil {
			_ = c.Error(utils.ErrBadRequest.Wrap(err))
			return
		}
	}
	gctx := jokers.NewGameContext(state, jokers.NewRNG(req.Seed))
	gctx.Conditions = jokers.NewConditionCache(ec.ConditionCacheSize)
	gctx.Jokers = owned
	gctx.Money = req.Money
	gctx.Ante = max(req.Ante, 1)
	gctx.Round = max(req.Round, 1)
	for rank, n := range req.HandCounts {
		gctx.HandTypeCounts[rank] = n
	}

	res := jokers.ScoreHand(gctx, poker.NewHand(cards...))
	c.JSON(http.StatusOK, ScoreResponse{Result: res, Money: gctx.Money, JokerState: state})
}

// parseHand is ParseCards limited to a playable hand
func parseHand(codes []string) ([]poker.Card, error) {
	if n := len(codes); n == 0 || n > 5 {
		return nil, fmt.Errorf("%w: got %d", runs.ErrInvalidHand, n)
	}
	return poker.ParseCards(codes...)
}
