package auth

import (
	"sync"

	"trimly/models"
	"trimly/utils"

	"go.uber.org/zap"
)

// eventBuffer bounds each subscriber channel. Events arriving while the
// subscriber has not started draining yet are held here in order.
const eventBuffer = 32

// eventHub fans auth events out to registered subscribers. Delivery is
// per-subscriber ordered; a subscriber that stops draining loses events
// rather than blocking emitters.
type eventHub struct {
	mu   sync.Mutex
	subs map[int]chan models.AuthEvent
	next int
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[int]chan models.AuthEvent)}
}

func (h *eventHub) subscribe() (int, <-chan models.AuthEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan models.AuthEvent, eventBuffer)
	h.subs[id] = ch
	return id, ch
}

func (h *eventHub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *eventHub) publish(ev models.AuthEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			utils.GetLogger().Warn("auth event dropped for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("event", string(ev.Type)))
		}
	}
}

// Subscribe registers a new auth event listener.
func (p *DefaultAuthProvider) Subscribe() (int, <-chan models.AuthEvent) {
	return p.hub.subscribe()
}

// Unsubscribe releases a listener and closes its channel.
func (p *DefaultAuthProvider) Unsubscribe(id int) {
	p.hub.unsubscribe(id)
}

func (p *DefaultAuthProvider) emit(eventType models.AuthEventType, userID, deviceID string) {
	p.hub.publish(models.AuthEvent{Type: eventType, UserID: userID, DeviceID: deviceID})
}
