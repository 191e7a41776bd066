package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Client is one socket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type channelsPayload struct {
	Channels []string `json:"channels"`
}

type roomPayload struct {
	JobID json.RawMessage `json:"jobId"`
}

// roomKey normalises a job id sent as a number or a string.
func roomKey(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// enqueue never blocks. A client whose buffer is full misses the frame.
// Callers hold the hub lock, so send is never closed underneath us.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) handle(f Frame) {
	switch f.Event {
	case "subscribe", "unsubscribe":
		var p channelsPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return
		}
		if f.Event == "subscribe" {
			c.hub.subscribe(c, p.Channels)
		} else {
			c.hub.unsubscribe(c, p.Channels)
		}
	case "join_room", "leave_room":
		var p roomPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return
		}
		room := roomKey(p.JobID)
		if room == "" {
			return
		}
		if f.Event == "join_room" {
			c.hub.join(c, room)
		} else {
			c.hub.leave(c, room)
		}
	case "send_message":
		var p roomPayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return
		}
		if room := roomKey(p.JobID); room != "" {
			c.hub.relayToRoom(c, room, f.Data)
		}
	default:
		log.WithField("event", f.Event).Debug("realtime: ignoring unknown event")
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("realtime: client read")
			}
			return
		}
		c.handle(f)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// Handler upgrades HTTP requests to socket connections attached to hub.
// Origins are checked by allowOrigin, nil accepts every origin.
func Handler(hub *Hub, allowOrigin func(origin string) bool) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowOrigin == nil {
				return true
			}
			return allowOrigin(origin)
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("realtime: upgrade failed")
			return
		}
		c := &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer)}
		hub.register(c)
		go c.writePump()
		go c.readPump()
	}
}
