package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kantin/internal/activity"
	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newActivityTestRouter(t *testing.T) (*gin.Engine, *activity.Service, *clock.FakeClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := recordstore.Open(t.TempDir(), nil, nil)
	require.NoError(t, err)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	svc := activity.New(activity.Params{
		Log:   zap.NewNop(),
		Store: store,
		Clock: fake,
		GenID: node,
	})

	srv := &Server{activities: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/activity", srv.ListActivity)
	return router, svc, fake
}

func TestListActivityHandler(t *testing.T) {
	router, svc, fake := newActivityTestRouter(t)

	require.NoError(t, svc.Record(context.Background(), "product_added", "Aqua 600ml (BRK001)"))
	fake.Advance(time.Minute)
	require.NoError(t, svc.Record(context.Background(), "sale_recorded", "5x Aqua 600ml (BRK001)"))

	req := httptest.NewRequest(http.MethodGet, "/api/activity", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data []activity.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 2)
	assert.Equal(t, "sale_recorded", payload.Data[0].Action)
	assert.Equal(t, "product_added", payload.Data[1].Action)
}

func TestListActivityHandlerLimit(t *testing.T) {
	router, svc, fake := newActivityTestRouter(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(context.Background(), "restocked", "BRK001"))
		fake.Advance(time.Second)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/activity?limit=1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data []activity.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Len(t, payload.Data, 1)
}

func TestListActivityHandlerRejectsBadLimit(t *testing.T) {
	router, _, _ := newActivityTestRouter(t)

	for _, raw := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/activity?limit="+raw, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "limit=%s", raw)
	}
}
