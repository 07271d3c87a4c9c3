package web

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Event is a single SSE message: either a served calculation result
// or a mirrored log line.
type Event struct {
	Time   string        `json:"t"`
	Kind   string        `json:"kind"` // "result" or "log"
	Msg    string        `json:"msg,omitempty"`
	Result *CalcResponse `json:"result,omitempty"`
}

// ResultBroadcaster distributes calculation results and log lines to
// multiple SSE clients, so every open page sees calculations live.
type ResultBroadcaster struct {
	mu      sync.RWMutex
	clients map[chan string]struct{}
}

// NewResultBroadcaster creates a new broadcaster.
func NewResultBroadcaster() *ResultBroadcaster {
	return &ResultBroadcaster{
		clients: make(map[chan string]struct{}),
	}
}

// Subscribe returns a channel that receives broadcast messages and a cleanup function.
// The caller must call the returned cleanup when done (e.g. on client disconnect).
func (b *ResultBroadcaster) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		delete(b.clients, ch)
		b.mu.Unlock()
		close(ch)
	}
	return ch, unsub
}

// BroadcastResult sends a calculation result to all subscribed clients.
func (b *ResultBroadcaster) BroadcastResult(res CalcResponse) {
	b.broadcast(Event{
		Time:   time.Now().Format(time.RFC3339),
		Kind:   "result",
		Result: &res,
	})
}

// BroadcastLog sends a log line to all subscribed clients.
func (b *ResultBroadcaster) BroadcastLog(msg string) {
	b.broadcast(Event{
		Time: time.Now().Format(time.RFC3339),
		Kind: "log",
		Msg:  msg,
	})
}

// broadcast serializes the event and fans it out.
// Slow clients may miss messages (non-blocking, buffered).
func (b *ResultBroadcaster) broadcast(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	payload := string(data)

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- payload:
		default:
			// channel full, skip
		}
	}
}

// BroadcastWriter implements io.Writer; each Write broadcasts the content
// as a log event. Used to mirror debug output to SSE clients.
func BroadcastWriter(b *ResultBroadcaster) *broadcastWriter {
	return &broadcastWriter{b: b}
}

type broadcastWriter struct {
	b *ResultBroadcaster
}

func (w *broadcastWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		w.b.BroadcastLog(msg)
	}
	return len(p), nil
}
