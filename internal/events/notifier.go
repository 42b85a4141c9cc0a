package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clinica-io/clinica-api/internal/domain"
	"github.com/clinica-io/clinica-api/pkg/metrics"
)

type Action string

const (
	ActionCreated  Action = "created"
	ActionModified Action = "modified"
	ActionDeleted  Action = "deleted"
)

// Notifier is told about every committed mutation. Implementations are
// fire-and-forget: a notification failure never rolls back or blocks the
// write it describes.
type Notifier interface {
	Created(ctx context.Context, entity domain.EntityType, key string, payload any)
	Modified(ctx context.Context, entity domain.EntityType, key string, payload any)
	Deleted(ctx context.Context, entity domain.EntityType, key string, payload any)
}

// Publisher hands a serialized event to the broker.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

type event struct {
	action  Action
	entity  domain.EntityType
	key     string
	payload any
}

// BusNotifier queues events on a buffered channel and publishes them from a
// single worker goroutine. A full buffer drops the event with a warning.
type BusNotifier struct {
	pub     Publisher
	prefix  string
	log     *zap.Logger
	metrics *metrics.Collector
	events  chan event
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewBusNotifier(pub Publisher, topicPrefix string, bufferSize int, log *zap.Logger, m *metrics.Collector) *BusNotifier {
	n := &BusNotifier{
		pub:     pub,
		prefix:  topicPrefix,
		log:     log,
		metrics: m,
		events:  make(chan event, bufferSize),
		done:    make(chan struct{}),
	}
	go n.worker()
	return n
}

func (n *BusNotifier) Created(_ context.Context, entity domain.EntityType, key string, payload any) {
	n.enqueue(event{action: ActionCreated, entity: entity, key: key, payload: payload})
}

func (n *BusNotifier) Modified(_ context.Context, entity domain.EntityType, key string, payload any) {
	n.enqueue(event{action: ActionModified, entity: entity, key: key, payload: payload})
}

func (n *BusNotifier) Deleted(_ context.Context, entity domain.EntityType, key string, payload any) {
	n.enqueue(event{action: ActionDeleted, entity: entity, key: key, payload: payload})
}

func (n *BusNotifier) enqueue(e event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		n.metrics.EventsDropped.Inc()
		n.log.Warn("notifier shut down, dropping event",
			zap.String("entity", string(e.entity)),
			zap.String("action", string(e.action)),
		)
		return
	}

	select {
	case n.events <- e:
	default:
		n.metrics.EventsDropped.Inc()
		n.log.Warn("event buffer full, dropping event",
			zap.String("entity", string(e.entity)),
			zap.String("action", string(e.action)),
		)
	}
}

// Shutdown stops accepting events and waits for the worker to drain the
// buffer, up to a timeout. Events enqueued after Shutdown are dropped; a
// handler still finishing a request must never hit a closed channel.
func (n *BusNotifier) Shutdown() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.events)
	n.mu.Unlock()

	select {
	case <-n.done:
	case <-time.After(10 * time.Second):
		n.log.Warn("notifier shutdown timed out; some events may be lost")
	}
}

func (n *BusNotifier) worker() {
	defer close(n.done)
	for e := range n.events {
		value, err := json.Marshal(e.payload)
		if err != nil {
			n.log.Error("failed to marshal event payload",
				zap.String("entity", string(e.entity)),
				zap.String("action", string(e.action)),
				zap.Error(err),
			)
			continue
		}

		topic := fmt.Sprintf("%s.%s.%s", n.prefix, e.entity, e.action)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = n.pub.Publish(ctx, topic, e.key, value)
		cancel()
		if err != nil {
			n.metrics.EventPublishErrors.Inc()
			n.log.Error("failed to publish event",
				zap.String("topic", topic),
				zap.String("key", e.key),
				zap.Error(err),
			)
			continue
		}

		n.metrics.EventsPublished.WithLabelValues(string(e.entity), string(e.action)).Inc()
	}
}

// Nop discards every notification. Used when the broker is disabled and in
// commands that must not publish.
type Nop struct{}

func (Nop) Created(context.Context, domain.EntityType, string, any) {}

func (Nop) Modified(context.Context, domain.EntityType, string, any) {}

func (Nop) Deleted(context.Context, domain.EntityType, string, any) {}
