package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

const (
	routeIndex  = "/"
	routeEvents = "/events"
)

const sseEventGraph = "graph"

// broker fans graph snapshots out to connected viewers. Each published
// snapshot gets the next ID; a new viewer starts from the latest one.
type broker struct {
	mu      sync.Mutex
	clients map[chan snapshot]struct{}
	latest  *snapshot
	nextID  uint64
}

func newBroker() *broker {
	return &broker{
		clients: make(map[chan snapshot]struct{}),
	}
}

func (b *broker) subscribe() chan snapshot {
	ch := make(chan snapshot, 1)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	if b.latest != nil {
		ch <- *b.latest
	}
	b.mu.Unlock()
	return ch
}

func (b *broker) unsubscribe(ch chan snapshot) {
	b.mu.Lock()
	delete(b.clients, ch)
	close(ch)
	b.mu.Unlock()
}

// publish stores s as the latest snapshot. Viewers still busy with an older
// one skip s rather than block the rebuild.
func (b *broker) publish(s snapshot) snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s.ID = b.nextID
	b.latest = &s
	for ch := range b.clients {
		select {
		case ch <- s:
		default:
		}
	}
	return s
}

func newServer(b *broker, port int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(routeIndex, handleIndex)
	mux.HandleFunc(routeEvents, handleSSE(b))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func handleSSE(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := b.subscribe()
		defer b.unsubscribe(ch)

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-ch:
				if !ok {
					return
				}
				if err := writeSnapshotEvent(w, s); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

// writeSnapshotEvent writes s as one SSE event. JSON keeps the payload on a
// single data line.
func writeSnapshotEvent(w http.ResponseWriter, s snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", s.ID, sseEventGraph, payload)
	return err
}
