package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Channel is the NOTIFY channel written by the schema triggers.
const Channel = "table_changes"

// OpResync tells subscribers that notifications may have been lost and a
// full re-fetch is needed.
const OpResync = "RESYNC"

var Tables = []string{"users", "authorizations", "transfer_requests", "transfer_history", "address_book"}

// Event says "table changed, re-fetch". It carries no row data.
type Event struct {
	Table string `json:"table"`
	Op    string `json:"op"`
}

type Source interface {
	NotificationChannel() <-chan *pq.Notification
}

type pinger interface {
	Ping() error
}

type subscriber struct {
	tables map[string]bool
	ch     chan Event
}

type Hub struct {
	src    Source
	buffer int

	mu      sync.RWMutex
	subs    map[int]*subscriber
	next    int
	stopped bool
}

func NewHub(src Source) *Hub {
	return &Hub{src: src, buffer: 16, subs: make(map[int]*subscriber)}
}

// Listen opens a pq.Listener on Channel.
func Listen(dsn string) (*pq.Listener, error) {
	l := pq.NewListener(dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logrus.WithError(err).Warn("realtime listener event")
		}
	})
	if err := l.Listen(Channel); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// Subscribe registers interest in tables; an empty list means all tables.
// The returned func must be called to release the subscription. The channel
// is closed when Run returns, so streams end with the hub.
func (h *Hub) Subscribe(tables []string) (<-chan Event, func()) {
	sub := &subscriber{tables: make(map[string]bool), ch: make(chan Event, h.buffer)}
	for _, t := range tables {
		sub.tables[t] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		close(sub.ch)
		return sub.ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = sub

	return sub.ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.ch)
		}
	}
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

func (h *Hub) Run(ctx context.Context) {
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	defer h.stop()

	notifications := h.src.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			if n == nil {
				// connection was re-established
				h.broadcast(Event{Op: OpResync})
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil || ev.Table == "" {
				logrus.WithField("payload", n.Extra).Warn("malformed change notification")
				continue
			}
			h.broadcast(ev)
		case <-ping.C:
			if p, ok := h.src.(pinger); ok {
				if err := p.Ping(); err != nil {
					logrus.WithError(err).Warn("realtime listener ping failed")
				}
			}
		}
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if ev.Op != OpResync && len(sub.tables) > 0 && !sub.tables[ev.Table] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// re-fetch signals coalesce, a full buffer already implies one
		}
	}
}
