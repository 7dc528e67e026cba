// Package events fans filler step transitions out over websocket
// connections for a monitoring dashboard, serving a plain net/http.Server
// the way tools/testapi/testapi.go does, upgraded per connection via
// gorilla/websocket.
package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// StepEvent is broadcast on every filler step transition.
type StepEvent struct {
	StepIndex int    `json:"stepIndex"`
	Outcome   string `json:"outcome"` // "" while the step is still in flight
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Broadcaster holds the set of live websocket subscribers and implements
// filler.Observer so a running solver can wire it in directly.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*websocket.Conn]struct{})}
}

// Handler upgrades GET /events requests and registers the connection as a
// subscriber until it errors out or the client disconnects.
func (b *Broadcaster) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("events: upgrade failed: %v", err)
		return
	}

	b.mu.Lock()
	b.subs[conn] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subs, conn)
		b.mu.Unlock()
		_ = conn.Close()
	}()

	// Drain and discard inbound frames; this is a push-only feed, but a
	// websocket connection still needs reads pumped to notice a close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) broadcast(evt StepEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.subs {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			go conn.Close()
			delete(b.subs, conn)
		}
	}
}

// StepStarted implements filler.Observer.
func (b *Broadcaster) StepStarted(stepIndex int) {
	b.broadcast(StepEvent{StepIndex: stepIndex})
}

// StepFinished implements filler.Observer.
func (b *Broadcaster) StepFinished(stepIndex int, outcome string) {
	b.broadcast(StepEvent{StepIndex: stepIndex, Outcome: outcome})
}
