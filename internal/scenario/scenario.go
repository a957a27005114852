// Package scenario drives a string cache through a scripted list of
// operations read from YAML and prints what happens.
package scenario

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	lru "github.com/venkatsvpr/lrucache"
)

// Op names a cache operation.
type Op string

// Operations a Step can run.
const (
	OpPut         Op = "put"
	OpGet         Op = "get"
	OpPeek        Op = "peek"
	OpSetCapacity Op = "set_capacity"
	OpReset       Op = "reset"
	OpSubscribe   Op = "subscribe"
	OpUnsubscribe Op = "unsubscribe"
	OpKeys        Op = "keys"
)

var (
	// ErrUnknownOp is returned for a step whose op is not one of the Op constants.
	ErrUnknownOp = errors.New("scenario: unknown op")

	// ErrMissingField is returned for a step lacking the key or subscriber its op needs.
	ErrMissingField = errors.New("scenario: missing field")
)

//go:embed default.yaml
var defaultScenario []byte

// Scenario is a named list of steps. A positive Capacity is applied, with
// eviction allowed, before the first step.
type Scenario struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// Step is one operation. Only the fields used by Op are read.
type Step struct {
	Op            Op     `yaml:"op"`
	Key           string `yaml:"key,omitempty"`
	Value         string `yaml:"value,omitempty"`
	Capacity      int    `yaml:"capacity,omitempty"`
	AllowEviction bool   `yaml:"allow_eviction,omitempty"`
	Subscriber    string `yaml:"subscriber,omitempty"`
}

func (s Step) validate() error {
	switch s.Op {
	case OpPut, OpGet, OpPeek:
		if s.Key == "" {
			return fmt.Errorf("%w: %s needs a key", ErrMissingField, s.Op)
		}
	case OpSubscribe, OpUnsubscribe:
		if s.Subscriber == "" {
			return fmt.Errorf("%w: %s needs a subscriber", ErrMissingField, s.Op)
		}
	case OpSetCapacity, OpReset, OpKeys:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}
	return nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// Default returns the built-in scenario.
func Default() *Scenario {
	s, err := Parse(defaultScenario)
	if err != nil {
		panic(err)
	}
	return s
}

// Run executes the steps against c, writing one line per step and one line
// per eviction record received by a scenario subscriber. Cache errors are
// reported and do not stop the run. Run stops early when ctx is done and
// removes its subscriptions before returning.
func Run(ctx context.Context, s *Scenario, c *lru.Cache[string, string], w io.Writer) error {
	subs := make(map[string]lru.SubscriptionToken)
	defer func() {
		for _, token := range subs {
			c.Unsubscribe(token)
		}
	}()

	if s.Capacity > 0 {
		if err := c.SetCapacity(s.Capacity, true); err != nil {
			return err
		}
		fmt.Fprintf(w, "capacity %d\n", s.Capacity)
	}

	for _, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch step.Op {
		case OpPut:
			report(w, fmt.Sprintf("put %s=%s", step.Key, step.Value), c.Put(step.Key, step.Value))
		case OpGet:
			v, err := c.Get(step.Key)
			if err != nil {
				report(w, "get "+step.Key, err)
				continue
			}
			fmt.Fprintf(w, "get %s=%s\n", step.Key, v)
		case OpPeek:
			if v, ok := c.Peek(step.Key); ok {
				fmt.Fprintf(w, "peek %s=%s\n", step.Key, v)
			} else {
				fmt.Fprintf(w, "peek %s: absent\n", step.Key)
			}
		case OpSetCapacity:
			report(w, fmt.Sprintf("set_capacity %d", step.Capacity), c.SetCapacity(step.Capacity, step.AllowEviction))
		case OpReset:
			c.Reset()
			fmt.Fprintf(w, "reset capacity=%d\n", c.Cap())
		case OpSubscribe:
			if _, ok := subs[step.Subscriber]; ok {
				fmt.Fprintf(w, "subscribe %s: already subscribed\n", step.Subscriber)
				continue
			}
			subs[step.Subscriber] = c.Subscribe(printer(w, step.Subscriber))
			fmt.Fprintf(w, "subscribe %s\n", step.Subscriber)
		case OpUnsubscribe:
			token, ok := subs[step.Subscriber]
			if !ok || !c.Unsubscribe(token) {
				fmt.Fprintf(w, "unsubscribe %s: not subscribed\n", step.Subscriber)
				continue
			}
			delete(subs, step.Subscriber)
			fmt.Fprintf(w, "unsubscribe %s\n", step.Subscriber)
		case OpKeys:
			fmt.Fprintf(w, "keys [%s]\n", strings.Join(c.Keys(), " "))
		default:
			return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
		}
	}
	return nil
}

func report(w io.Writer, line string, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", line, err)
		return
	}
	fmt.Fprintln(w, line)
}

func printer(w io.Writer, name string) lru.EvictionHandler[string, string] {
	return func(rec lru.EvictionRecord[string, string]) {
		fmt.Fprintf(w, "  %s: evicted %s=%s at %s\n", name, rec.Key, rec.Value, rec.EvictedAt.Format(time.RFC3339))
	}
}
