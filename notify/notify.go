// Package notify carries transient user-facing notifications ("toasts")
// from whatever raised them to whichever surface currently renders them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays visible unless the producer says otherwise.
const DefaultTTL = 5 * time.Second

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Toast is a single transient notification. Not persisted anywhere.
type Toast struct {
	ID       uuid.UUID     `json:"id"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	TTL      time.Duration `json:"ttl"`
}

// New creates a toast with a fresh ID and the default TTL.
func New(severity Severity, message string) Toast {
	return Toast{
		ID:       uuid.New(),
		Severity: severity,
		Message:  message,
		TTL:      DefaultTTL,
	}
}

// Notifier is the producer-side interface. Emitting with no active
// subscriber is a silent no-op, never an error.
type Notifier interface {
	Notify(toast Toast)
}

// Center fans toasts out to at most one subscriber. Subscribing replaces
// any previous subscriber (last writer wins).
type Center struct {
	mu         sync.Mutex
	subscriber func(Toast)
	generation uint64
}

var _ Notifier = (*Center)(nil)

func NewCenter() *Center {
	return &Center{}
}

// Subscribe registers fn as the active subscriber and returns an
// unsubscribe function. Unsubscribing is a no-op if another subscriber
// has replaced this one in the meantime.
func (c *Center) Subscribe(fn func(Toast)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriber = fn
	c.generation++
	mine := c.generation

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation == mine {
			c.subscriber = nil
		}
	}
}

// Notify delivers the toast to the active subscriber, if any.
func (c *Center) Notify(toast Toast) {
	c.mu.Lock()
	subscriber := c.subscriber
	c.mu.Unlock()
	if subscriber == nil {
		return
	}
	subscriber(toast)
}
