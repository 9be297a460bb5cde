package webapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vendingops/vmconsole/pkg/crud"
	"github.com/vendingops/vmconsole/pkg/docstore"
)

func TestEventHubDeliversCacheChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewEventHub()
	go hub.Run(ctx)

	mem := docstore.NewMemoryStore()
	cache := crud.NewListCache(crud.Schema{Collection: "brands", Required: []string{"name"}}, mem)
	stop := hub.Subscribe(cache)
	defer stop()

	e := echo.New()
	e.GET("/api/events", hub.ServeWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	cache.ApplyCreate(crud.Entity{ID: "b1", Fields: map[string]any{"name": "Optimum"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev crud.ChangeEvent
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, crud.ChangeCreated, ev.Kind)
	require.Equal(t, "b1", ev.ID)
	require.Equal(t, "Optimum", ev.Entity.Fields["name"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
