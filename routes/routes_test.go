package routes

import (
	"Comodin/controllers"
	"Comodin/middleware"
	"Comodin/services/filters"
	"Comodin/services/jokers"
	"Comodin/services/runs"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := jokers.NewCatalog()
	vreg := vouchers.NewRegistry()
	treg := tags.NewRegistry()
	tokens := middleware.NewTokenService("routes-key", time.Hour)
	engine := &controllers.EngineController{
		Catalog:       catalog,
		Tags:          treg,
		Vouchers:      vreg,
		Filters:       filters.NewRegistry(),
		MaxStateValue: jokers.DefaultMaxValue,
	}
	svc := runs.NewService(runs.NewMemoryStore(), runs.NewMemoryCache(), catalog, vreg, treg, jokers.DefaultMaxValue)

	r := gin.New()
	middleware.SetUpMiddleware(r, "session-key", false)
	SetupRoutes(r, engine, &controllers.RunController{Runs: svc, Tokens: tokens}, tokens)
	return r
}

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c *client) call(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type session struct {
	Run struct {
		ID      string `json:"id"`
		Version uint64 `json:"version"`
	} `json:"run"`
	Token string `json:"token"`
}

func TestRunFlow(t *testing.T) {
	c := &client{t: t, r: newRouter()}

	w := c.call(http.MethodGet, "/auth/runs/state", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.call(http.MethodPost, "/runs", gin.H{"passphrase": "secret"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[session](t, w)
	require.NotEmpty(t, created.Token)

	t.Run("login", func(t *testing.T) {
		w := c.call(http.MethodPost, "/runs/login", gin.H{"run_id": created.Run.ID, "passphrase": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = c.call(http.MethodPost, "/runs/login", gin.H{"run_id": "missing", "passphrase": "secret"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = c.call(http.MethodPost, "/runs/login", gin.H{"run_id": created.Run.ID, "passphrase": "secret"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	c.token = created.Token

	w = c.call(http.MethodPut, "/auth/runs/state", gin.H{"jokers": []string{"joker"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.call(http.MethodPost, "/auth/runs/hands", gin.H{"cards": []string{"Ah", "Ad", "3c"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	played := decode[struct {
		Result struct {
			Total int64 `json:"total"`
		} `json:"result"`
	}](t, w)
	assert.Equal(t, int64(192), played.Result.Total)

	w = c.call(http.MethodPost, "/auth/runs/vouchers/overstock", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = c.call(http.MethodPost, "/auth/runs/vouchers/overstock", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.call(http.MethodGet, "/auth/runs/shop", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	opened := decode[struct {
		Shop struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"shop"`
	}](t, w)
	assert.Len(t, opened.Shop.Items, 3, "Overstock adds a slot")

	w = c.call(http.MethodPost, "/auth/runs/shop/items/item_0_0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = c.call(http.MethodPost, "/auth/runs/shop/items/item_0_0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.call(http.MethodPost, "/auth/runs/round/end", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.call(http.MethodDelete, "/auth/runs/jokers/0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = c.call(http.MethodDelete, "/auth/runs/jokers/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.call(http.MethodPost, "/auth/runs/skip/economy", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = c.call(http.MethodGet, "/auth/runs/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[struct {
		Round int `json:"round"`
	}](t, w)
	assert.Equal(t, 3, state.Round)
}

func TestPublicRoutes(t *testing.T) {
	c := &client{t: t, r: newRouter()}
	for _, path := range []string{"/ping", "/jokers", "/tags", "/vouchers", "/filters"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, c.call(http.MethodGet, path, nil).Code)
		})
	}
}
