package lru

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/venkatsvpr/lrucache/internal/logger"
)

// EvictionRecord describes one completed eviction.
type EvictionRecord[K comparable, V any] struct {
	Key       K
	Value     V
	EvictedAt time.Time
}

// EvictionHandler receives eviction records.
type EvictionHandler[K comparable, V any] func(EvictionRecord[K, V])

// SubscriptionToken identifies one registration with an EvictionPublisher.
type SubscriptionToken struct {
	id uuid.UUID
}

func (t SubscriptionToken) String() string { return t.id.String() }

// IsZero reports whether t was returned for a rejected registration.
func (t SubscriptionToken) IsZero() bool { return t.id == uuid.Nil }

type subscription[K comparable, V any] struct {
	token   SubscriptionToken
	handler EvictionHandler[K, V]
}

// EvictionPublisher is an ordered registry of eviction handlers.
// All methods are safe for concurrent use. Its lock is independent from any
// cache lock, and handlers run without it held.
type EvictionPublisher[K comparable, V any] struct {
	mu     sync.RWMutex
	subs   []subscription[K, V]
	logger *slog.Logger
}

// NewEvictionPublisher creates an empty publisher. A nil logger discards.
func NewEvictionPublisher[K comparable, V any](l *slog.Logger) *EvictionPublisher[K, V] {
	if l == nil {
		l = logger.Discard()
	}
	return &EvictionPublisher[K, V]{logger: l}
}

// Subscribe appends handler to the registry and returns its token.
// Registering the same handler twice yields two independent registrations.
// A nil handler is rejected with the zero token.
func (p *EvictionPublisher[K, V]) Subscribe(handler EvictionHandler[K, V]) SubscriptionToken {
	if handler == nil {
		return SubscriptionToken{}
	}
	token := SubscriptionToken{id: uuid.New()}

	p.mu.Lock()
	defer p.mu.Unlock()

	// copy on write: Publish iterates over snapshots without the lock
	subs := make([]subscription[K, V], len(p.subs), len(p.subs)+1)
	copy(subs, p.subs)
	p.subs = append(subs, subscription[K, V]{token: token, handler: handler})
	return token
}

// Unsubscribe removes the registration identified by token. It reports
// whether the token was registered.
func (p *EvictionPublisher[K, V]) Unsubscribe(token SubscriptionToken) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, s := range p.subs {
		if s.token != token {
			continue
		}
		subs := make([]subscription[K, V], 0, len(p.subs)-1)
		subs = append(subs, p.subs[:i]...)
		p.subs = append(subs, p.subs[i+1:]...)
		return true
	}
	return false
}

// Len returns the number of registrations.
func (p *EvictionPublisher[K, V]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Publish delivers record to every registered handler in registration order.
// A handler that panics does not stop delivery to the others; its panic is
// logged and returned as a *HandlerPanicError inside the joined error.
func (p *EvictionPublisher[K, V]) Publish(record EvictionRecord[K, V]) error {
	return p.PublishAll([]EvictionRecord[K, V]{record})
}

// PublishAll delivers records in order, each to every handler.
func (p *EvictionPublisher[K, V]) PublishAll(records []EvictionRecord[K, V]) error {
	if len(records) == 0 {
		return nil
	}

	p.mu.RLock()
	subs := p.subs
	p.mu.RUnlock()

	var errs []error
	for _, rec := range records {
		for _, s := range subs {
			if err := p.deliver(s, rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (p *EvictionPublisher[K, V]) deliver(s subscription[K, V], rec EvictionRecord[K, V]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanicError{Token: s.token, Value: r}
			p.logger.Error("eviction handler panicked",
				logger.Component("lru"),
				logger.Event("handler_panic"),
				slog.String("subscription", s.token.String()),
				logger.Key(rec.Key),
				logger.Error(err),
			)
		}
	}()
	s.handler(rec)
	return nil
}
