// Package push is the client side of the backend's progress channel.
//
// Messages travel as JSON envelopes {"event": name, "data": payload} over a
// websocket. Events are delivered on a channel strictly in arrival order.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

// Event names.
const (
	EventStart    = "start"
	EventProgress = "progress"
	EventError    = "error"
)

const (
	writeWait        = 10 * time.Second
	handshakeTimeout = 15 * time.Second
	eventBuffer      = 64
)

// ErrClosed is returned when emitting on a closed channel.
var ErrClosed = errors.New("push: channel closed")

// Envelope is one frame on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// StartPayload asks the backend to begin processing an uploaded resume.
type StartPayload struct {
	Filename       string `json:"filename"`
	JobDescription string `json:"job_description"`
	Location       string `json:"location,omitempty"`
}

// ProgressPayload is a progress update; missing fields count as 0.
type ProgressPayload struct {
	JobProgress      float64 `json:"job_progress,omitempty"`
	SentenceProgress float64 `json:"sentence_progress,omitempty"`
}

// ErrorPayload is a backend-reported failure.
type ErrorPayload struct {
	Message string `json:"message,omitempty"`
}

// Event is a decoded server event. Only the payload matching Name is set.
type Event struct {
	Name     string
	Progress ProgressPayload
	Error    ErrorPayload
}

// Conn is an open push channel.
type Conn struct {
	ws     *websocket.Conn
	events chan Event

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

// Dial opens the channel. jar may be nil.
func Dial(ctx context.Context, url string, jar http.CookieJar) (*Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
		Jar:              jar,
	}
	ws, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("push dial %s: status %d: %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("push dial %s: %w", url, err)
	}
	c := &Conn{ws: ws, events: make(chan Event, eventBuffer), done: make(chan struct{})}
	go c.readLoop()
	return c, nil
}

// Events delivers server events in arrival order. The channel is closed when the connection ends.
func (c *Conn) Events() <-chan Event { return c.events }

// Start sends the start message.
func (c *Conn) Start(p StartPayload) error {
	return c.Emit(EventStart, p)
}

// Emit sends one event.
func (c *Conn) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("push encode %s: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("push encode %s: %w", event, err)
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("push write %s: %w", event, err)
	}
	return nil
}

// Close shuts the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.events)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					telemetry.Warn("push.read_failed", map[string]any{"error": err})
				}
			}
			return
		}
		ev, ok := Decode(data)
		if !ok {
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// Decode parses one frame. Unknown events and malformed frames are dropped.
func Decode(data []byte) (Event, bool) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		telemetry.Warn("push.bad_frame", map[string]any{"error": err, "bytes": len(data)})
		return Event{}, false
	}
	ev := Event{Name: env.Event}
	switch env.Event {
	case EventProgress:
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &ev.Progress); err != nil {
				telemetry.Warn("push.bad_payload", map[string]any{"event": env.Event, "error": err})
				return Event{}, false
			}
		}
	case EventError:
		if len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &ev.Error)
		}
	default:
		telemetry.Debug("push.unknown_event", map[string]any{"event": env.Event})
		return Event{}, false
	}
	return ev, true
}
