package webapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-uuid"
	"github.com/labstack/echo/v4"
	"github.com/vendingops/vmconsole/pkg/clog"
	"github.com/vendingops/vmconsole/pkg/crud"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type eventClient struct {
	id   string
	conn *websocket.Conn
	send chan crud.ChangeEvent
	hub  *EventHub
}

// EventHub fans cache change events out to websocket clients. A client
// that cannot keep up is dropped rather than slowing the others.
type EventHub struct {
	clients    map[string]*eventClient
	register   chan *eventClient
	unregister chan *eventClient
	broadcast  chan crud.ChangeEvent
	count      chan chan int
	done       chan struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:    make(map[string]*eventClient),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
		broadcast:  make(chan crud.ChangeEvent, 100),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done, then closes every client.
func (h *EventHub) Run(ctx context.Context) {
	log := clog.UsingCtx("events")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			return

		case client := <-h.register:
			h.clients[client.id] = client
			log.WithField("client", client.id).Info("Client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
				log.WithField("client", client.id).Info("Client unregistered")
			}

		case ev := <-h.broadcast:
			for id, client := range h.clients {
				select {
				case client.send <- ev:
				default:
					log.WithField("client", id).Warn("Client too slow, dropping")
					close(client.send)
					delete(h.clients, id)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Publish queues ev for every client. It never blocks the caller; when the
// queue is full the event is dropped.
func (h *EventHub) Publish(ev crud.ChangeEvent) {
	select {
	case h.broadcast <- ev:
	default:
		clog.UsingCtx("events").WithField("collection", ev.Collection).Warn("Event queue full, dropping event")
	}
}

// Subscribe publishes every change of the given caches. The returned func
// stops it.
func (h *EventHub) Subscribe(caches ...*crud.ListCache) func() {
	var cancels []func()
	for _, c := range caches {
		cancels = append(cancels, c.Subscribe(h.Publish))
	}

	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Clients returns the number of connected clients. It blocks until Run has
// started.
func (h *EventHub) Clients() int {
	reply := make(chan int)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *EventHub) ServeWS(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		clog.UsingCtx("events").Errorf("Upgrade error: %s", err)
		return nil
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		_ = conn.Close()
		return err
	}

	client := &eventClient{id: id, conn: conn, send: make(chan crud.ChangeEvent, sendBuffer), hub: h}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump only watches for the client going away; clients send nothing.
func (c *eventClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				clog.UsingCtx("events").WithField("client", c.id).Warnf("WebSocket error: %s", err)
			}
			return
		}
	}
}

func (c *eventClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
