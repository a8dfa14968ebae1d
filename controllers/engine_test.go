package controllers

import (
	"Comodin/services/filters"
	"Comodin/services/jokers"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"Comodin/utils"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	ec := &EngineController{
		Catalog:       jokers.NewCatalog(),
		Tags:          tags.NewRegistry(),
		Vouchers:      vouchers.NewRegistry(),
		Filters:       filters.NewRegistry(),
		MaxStateValue: jokers.DefaultMaxValue,
	}
	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.GET("/ping", Ping)
	r.GET("/jokers", ec.ListJokers)
	r.GET("/jokers/:id", ec.GetJoker)
	r.GET("/tags", ec.ListTags)
	r.GET("/tags/:id", ec.GetTag)
	r.GET("/vouchers", ec.ListVouchers)
	r.GET("/vouchers/:id", ec.GetVoucher)
	r.GET("/filters", ec.ListFilters)
	r.POST("/filters/apply", ec.ApplyFilter)
	r.POST("/score", ec.Score)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	w := do(engineRouter(), http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestRegistryEndpoints(t *testing.T) {
	r := engineRouter()

	tests := []struct {
		name string
		path string
		code int
	}{
		{"jokers", "/jokers", http.StatusOK},
		{"joker", "/jokers/supernova", http.StatusOK},
		{"unknown joker", "/jokers/nope", http.StatusNotFound},
		{"tags", "/tags", http.StatusOK},
		{"tags at ante", "/tags?ante=1", http.StatusOK},
		{"tags bad ante", "/tags?ante=one", http.StatusBadRequest},
		{"tag", "/tags/economy", http.StatusOK},
		{"unknown tag", "/tags/nope", http.StatusNotFound},
		{"vouchers", "/vouchers", http.StatusOK},
		{"voucher", "/vouchers/overstock", http.StatusOK},
		{"unknown voucher", "/vouchers/nope", http.StatusNotFound},
		{"filters", "/filters", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}

	t.Run("joker body", func(t *testing.T) {
		var def jokers.Definition
		w := do(r, http.MethodGet, "/jokers/supernova", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &def))
		assert.Equal(t, jokers.Supernova, def.ID)
	})

	t.Run("late tags are hidden at ante 1", func(t *testing.T) {
		var defs []tags.Definition
		w := do(r, http.MethodGet, "/tags?ante=1", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &defs))
		for _, d := range defs {
			assert.NotEqual(t, tags.TopUp, d.ID)
		}
	})
}

func TestApplyFilter(t *testing.T) {
	r := engineRouter()

	w := do(r, http.MethodPost, "/filters/apply", gin.H{"filter": "face", "cards": []string{"Kh", "2c", "Qs"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Cards []struct {
			Rank string `json:"rank"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Cards, 2)
	assert.Equal(t, "K", body.Cards[0].Rank)

	w = do(r, http.MethodPost, "/filters/apply", gin.H{"filter": "sparkly", "cards": []string{"Kh"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/filters/apply", gin.H{"filter": "face", "cards": []string{"Kx"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScore(t *testing.T) {
	r := engineRouter()

	t.Run("jokers in order", func(t *testing.T) {
		w := do(r, http.MethodPost, "/score", gin.H{"hand": []string{"Ah", "Ad", "3c"}, "jokers": []string{"joker"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Result struct {
				Total int64 `json:"total"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(192), resp.Result.Total)
	})

	t.Run("hand counts", func(t *testing.T) {
		w := do(r, http.MethodPost, "/score", gin.H{
			"hand":        []string{"Ah", "Ad", "3c"},
			"jokers":      []string{"supernova"},
			"hand_counts": map[string]int{"One Pair": 4},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Result struct {
				Total int64 `json:"total"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// fifth pair: 2 + 5 mult
		assert.Equal(t, int64(32*7), resp.Result.Total)
	})

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"no hand", gin.H{"jokers": []string{"joker"}}, http.StatusBadRequest},
		{"six cards", gin.H{"hand": []string{"2c", "3c", "4c", "5c", "6c", "7c"}}, http.StatusBadRequest},
		{"unknown joker", gin.H{"hand": []string{"2c"}, "jokers": []string{"nope"}}, http.StatusBadRequest},
		{"bad state", gin.H{"hand": []string{"2c"}, "joker_state": gin.H{"joker": gin.H{"accumulated_value": "x"}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/score", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}
