// Package notifysvc holds transient user-facing notifications (toasts).
// Notifications expire on their own after a TTL; interested views observe
// the reactive list and re-render on every change.
package notifysvc

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/reactive"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

type Notification struct {
	ID        uuid.UUID
	Level     Level
	Message   string
	CreatedAt time.Time // UTC
}

type Center struct {
	ttl    time.Duration
	logger core.Logger

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer

	active *reactive.Cell[[]Notification]
}

func NewCenter(conf *core.Config, logger core.Logger) *Center {
	return &Center{
		ttl:    conf.NotificationTTL,
		logger: logger,
		timers: make(map[uuid.UUID]*time.Timer),
		active: reactive.NewCell([]Notification{}),
	}
}

// Notifications exposes the visible notifications, oldest first.
func (c *Center) Notifications() *reactive.Cell[[]Notification] {
	return c.active
}

// Push shows a notification and schedules its expiry.
func (c *Center) Push(level Level, msg string) uuid.UUID {
	n := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	}
	c.logger.Debug("notify: " + n.Level.String() + ": " + msg)

	c.mu.Lock()
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	c.mu.Unlock()

	c.active.Set(append(c.active.Get(), n))
	return n.ID
}

func (c *Center) Info(msg string)    { c.Push(LevelInfo, msg) }
func (c *Center) Success(msg string) { c.Push(LevelSuccess, msg) }
func (c *Center) Warning(msg string) { c.Push(LevelWarning, msg) }
func (c *Center) Error(msg string)   { c.Push(LevelError, msg) }

// Dismiss removes a notification before (or at) its expiry. Unknown ids are
// a no-op.
func (c *Center) Dismiss(id uuid.UUID) {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	cur := c.active.Get()
	next := make([]Notification, 0, len(cur))
	for _, n := range cur {
		if n.ID != id {
			next = append(next, n)
		}
	}
	c.active.Set(next)
}
