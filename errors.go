package lru

import (
	"errors"
	"fmt"

	"github.com/venkatsvpr/lrucache/simplelru"
)

var (
	// ErrInvalidArgument is matched by every argument validation error.
	ErrInvalidArgument = errors.New("lru: invalid argument")

	// ErrInvalidKey is returned for a nil key.
	ErrInvalidKey = fmt.Errorf("%w: key must not be nil", ErrInvalidArgument)

	// ErrInvalidValue is returned for a nil value.
	ErrInvalidValue = fmt.Errorf("%w: value must not be nil", ErrInvalidArgument)

	// ErrNotFound is returned by Get when the key is not cached.
	ErrNotFound = errors.New("lru: key not found")

	// ErrEvictionNotAuthorized is matched by *EvictionNotAuthorizedError.
	ErrEvictionNotAuthorized = errors.New("lru: eviction not authorized")
)

// ErrInvalidCapacity is returned for a capacity outside 1..MaxCapacity. It matches both
// ErrInvalidArgument and simplelru.ErrInvalidCapacity.
var ErrInvalidCapacity error = invalidCapacityError{}

type invalidCapacityError struct{}

func (invalidCapacityError) Error() string {
	return fmt.Sprintf("lru: invalid argument: capacity must be between 1 and %d", MaxCapacity)
}

func (invalidCapacityError) Is(target error) bool {
	return target == ErrInvalidArgument || target == simplelru.ErrInvalidCapacity
}

// EvictionNotAuthorizedError is returned by SetCapacity when shrinking would
// drop live entries and the caller did not allow eviction.
type EvictionNotAuthorizedError struct {
	Capacity  int // requested capacity
	Size      int // entries cached when the request was refused
	Evictions int // entries the shrink would have evicted
}

func (e *EvictionNotAuthorizedError) Error() string {
	return fmt.Sprintf("lru: resizing to %d would evict %d of %d entries; allowEviction must be set",
		e.Capacity, e.Evictions, e.Size)
}

func (e *EvictionNotAuthorizedError) Is(target error) bool {
	return target == ErrEvictionNotAuthorized
}

// HandlerPanicError reports an eviction handler that panicked during Publish.
type HandlerPanicError struct {
	Token SubscriptionToken
	Value any
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("lru: eviction handler %s panicked: %v", e.Token, e.Value)
}

func (e *HandlerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func capacityError(capacity int) error {
	return fmt.Errorf("%w (got %d)", ErrInvalidCapacity, capacity)
}

func notFoundError(key any) error {
	return fmt.Errorf("%w: %v", ErrNotFound, key)
}
