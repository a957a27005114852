package lru

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/venkatsvpr/lrucache/internal/logger"
	"github.com/venkatsvpr/lrucache/simplelru"
)

const (
	// DefaultCapacity is the capacity restored by Reset under
	// ResetToDefaultCapacity unless WithDefaultCapacity says otherwise.
	DefaultCapacity = 100

	// DefaultEvictedBufferSize defines the default buffer size to store evicted records
	DefaultEvictedBufferSize = 16

	// MaxCapacity is the largest capacity a Cache accepts.
	MaxCapacity = simplelru.MaxSize
)

// ResetPolicy decides what Reset does with the configured capacity.
type ResetPolicy int

const (
	// ResetPreserveCapacity keeps the capacity in force when Reset is called.
	ResetPreserveCapacity ResetPolicy = iota
	// ResetToDefaultCapacity restores the default capacity on Reset.
	ResetToDefaultCapacity
)

func (p ResetPolicy) String() string {
	switch p {
	case ResetPreserveCapacity:
		return "preserve"
	case ResetToDefaultCapacity:
		return "default"
	default:
		return fmt.Sprintf("ResetPolicy(%d)", int(p))
	}
}

// ParseResetPolicy maps "preserve" and "default" to their policy.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch s {
	case "preserve", "":
		return ResetPreserveCapacity, nil
	case "default":
		return ResetToDefaultCapacity, nil
	default:
		return 0, fmt.Errorf("%w: unknown reset policy %q", ErrInvalidArgument, s)
	}
}

// Option customizes a Cache at construction time.
type Option func(o *options) error

type options struct {
	logger          *slog.Logger
	resetPolicy     ResetPolicy
	defaultCapacity int
	now             func() time.Time
}

func defaultOptions() options {
	return options{
		logger:          logger.Discard(),
		resetPolicy:     ResetPreserveCapacity,
		defaultCapacity: DefaultCapacity,
		now:             time.Now,
	}
}

// WithLogger sets the logger used for eviction batches, refused resizes,
// resets and failing eviction handlers. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l != nil {
			o.logger = l
		}
		return nil
	}
}

// WithResetPolicy selects how Reset treats the capacity.
func WithResetPolicy(p ResetPolicy) Option {
	return func(o *options) error {
		switch p {
		case ResetPreserveCapacity, ResetToDefaultCapacity:
			o.resetPolicy = p
			return nil
		default:
			return fmt.Errorf("%w: unknown reset policy %v", ErrInvalidArgument, p)
		}
	}
}

// WithDefaultCapacity sets the capacity restored by ResetToDefaultCapacity.
func WithDefaultCapacity(capacity int) Option {
	return func(o *options) error {
		if !simplelru.ValidSize(capacity) {
			return capacityError(capacity)
		}
		o.defaultCapacity = capacity
		return nil
	}
}

// WithClock overrides the source of EvictionRecord timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}
