package domain

import (
	"sort"
	"strings"
)

// DefaultCounterName is the counter every store starts with. It can never be deleted.
const DefaultCounterName = "counter"

// legacyResetValue is used by Reset when a counter loaded from an old index
// file has no recorded original start.
const legacyResetValue = 1

// Counter is a named integer sequence used as a pattern element
type Counter struct {
	Name          string `json:"-"`
	Value         int    `json:"value"`
	Increment     int    `json:"increment"`
	OriginalStart *int   `json:"original_start,omitempty"`
}

// ResetValue returns the value Reset restores
func (c Counter) ResetValue() int {
	if c.OriginalStart == nil {
		return legacyResetValue
	}
	return *c.OriginalStart
}

// DefaultCounter returns the counter a fresh directory starts with
func DefaultCounter() Counter {
	start := 1
	return Counter{Name: DefaultCounterName, Value: 1, Increment: 1, OriginalStart: &start}
}

// CounterStore holds named counters and their increment rules
type CounterStore struct {
	counters map[string]*Counter
}

// NewCounterStore returns a store containing only the default counter
func NewCounterStore() *CounterStore {
	s := &CounterStore{counters: make(map[string]*Counter)}
	c := DefaultCounter()
	s.counters[c.Name] = &c
	return s
}

// NewCounterStoreFrom builds a store from persisted counters. Map keys win
// over any Name set on the values. The default counter is added if missing.
func NewCounterStoreFrom(counters map[string]Counter) *CounterStore {
	s := &CounterStore{counters: make(map[string]*Counter, len(counters)+1)}
	for name, c := range counters {
		c.Name = name
		if c.Increment < 1 {
			c.Increment = 1
		}
		c.OriginalStart = copyIntPtr(c.OriginalStart)
		s.counters[name] = &c
	}
	if _, ok := s.counters[DefaultCounterName]; !ok {
		c := DefaultCounter()
		s.counters[c.Name] = &c
	}
	return s
}

// ValidateCounterName checks that name can be used as a {name} reference
func ValidateCounterName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &InvalidCounterError{Name: name, Reason: "name is required"}
	case name != strings.TrimSpace(name):
		return &InvalidCounterError{Name: name, Reason: "name must not start or end with spaces"}
	case strings.ContainsAny(name, "{}"):
		return &InvalidCounterError{Name: name, Reason: "name must not contain braces"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidCounterError{Name: name, Reason: "name must not contain path separators"}
	case IsBuiltinToken(name):
		return &InvalidCounterError{Name: name, Reason: "name is a built-in token"}
	}
	return nil
}

// Exists reports whether a counter with this name is defined
func (s *CounterStore) Exists(name string) bool {
	_, ok := s.counters[name]
	return ok
}

// Get returns a copy of the named counter
func (s *CounterStore) Get(name string) (Counter, bool) {
	c, ok := s.counters[name]
	if !ok {
		return Counter{}, false
	}
	out := *c
	out.OriginalStart = copyIntPtr(c.OriginalStart)
	return out, true
}

// Create defines a counter. An existing counter is only replaced when
// overwrite is true; callers use Exists to ask the user first.
func (s *CounterStore) Create(name string, start, increment int, overwrite bool) error {
	if err := ValidateCounterName(name); err != nil {
		return err
	}
	if increment < 1 {
		return &InvalidCounterError{Name: name, Reason: "increment must be at least 1"}
	}
	if start < 0 {
		return &InvalidCounterError{Name: name, Reason: "start must not be negative"}
	}
	if s.Exists(name) && !overwrite {
		return &DuplicateNameError{Name: name}
	}

	original := start
	s.counters[name] = &Counter{
		Name:          name,
		Value:         start,
		Increment:     increment,
		OriginalStart: &original,
	}
	return nil
}

// Increment advances the counter by its step and returns the new value
func (s *CounterStore) Increment(name string) (int, error) {
	c, ok := s.counters[name]
	if !ok {
		return 0, &UnknownCounterError{Name: name}
	}
	c.Value += c.Increment
	return c.Value, nil
}

// Reset restores the counter to its original start
func (s *CounterStore) Reset(name string) error {
	c, ok := s.counters[name]
	if !ok {
		return &UnknownCounterError{Name: name}
	}
	c.Value = c.ResetValue()
	return nil
}

// Delete removes a counter. The default counter is protected.
func (s *CounterStore) Delete(name string) error {
	if name == DefaultCounterName {
		return &ProtectedCounterError{Name: name}
	}
	if !s.Exists(name) {
		return &UnknownCounterError{Name: name}
	}
	delete(s.counters, name)
	return nil
}

// Names returns counter names with the default counter first, the rest sorted
func (s *CounterStore) Names() []string {
	names := make([]string, 0, len(s.counters))
	for name := range s.counters {
		if name != DefaultCounterName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if s.Exists(DefaultCounterName) {
		names = append([]string{DefaultCounterName}, names...)
	}
	return names
}

// List returns copies of all counters in Names order
func (s *CounterStore) List() []Counter {
	names := s.Names()
	out := make([]Counter, 0, len(names))
	for _, name := range names {
		c, _ := s.Get(name)
		out = append(out, c)
	}
	return out
}

// Values returns the current value of every counter
func (s *CounterStore) Values() map[string]int {
	out := make(map[string]int, len(s.counters))
	for name, c := range s.counters {
		out[name] = c.Value
	}
	return out
}

// Snapshot returns a deep copy suitable for persistence
func (s *CounterStore) Snapshot() map[string]Counter {
	out := make(map[string]Counter, len(s.counters))
	for name := range s.counters {
		out[name], _ = s.Get(name)
	}
	return out
}

// Clone returns an independent copy of the store
func (s *CounterStore) Clone() *CounterStore {
	return NewCounterStoreFrom(s.Snapshot())
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
