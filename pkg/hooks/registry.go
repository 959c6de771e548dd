// Package hooks provides an in-process filter and action registry. Callbacks
// run in ascending priority; equal priorities keep registration order.
package hooks

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
)

// Well-known priorities.
const (
	PriorityDefault = 10
	PriorityLast    = math.MaxInt
)

// FilterFunc receives the current value plus any extra arguments and returns
// the value handed to the next filter.
type FilterFunc func(ctx context.Context, value any, args ...any) any

// ActionFunc is invoked for side effects only.
type ActionFunc func(ctx context.Context, args ...any)

type callback struct {
	priority int
	order    int
	filter   FilterFunc
	action   ActionFunc
}

// Registry stores filters and actions by hook name. The zero value is not
// usable; call NewRegistry.
type Registry struct {
	mu      sync.RWMutex
	filters map[string][]callback
	actions map[string][]callback
	claimed map[string]struct{}
	seq     int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		filters: make(map[string][]callback),
		actions: make(map[string][]callback),
		claimed: make(map[string]struct{}),
	}
}

// Claim reports true the first time key is claimed on this registry and false
// afterwards. Packages use it to wire themselves into a registry once.
func (r *Registry) Claim(key string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claimed[key]; ok {
		return false
	}
	r.claimed[key] = struct{}{}
	return true
}

// AddFilter registers fn under name. Empty names and nil functions are ignored.
func (r *Registry) AddFilter(name string, priority int, fn FilterFunc) {
	if r == nil || fn == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = insert(r.filters[name], callback{priority: priority, order: r.next(), filter: fn})
}

// AddAction registers fn under name. Empty names and nil functions are ignored.
func (r *Registry) AddAction(name string, priority int, fn ActionFunc) {
	if r == nil || fn == nil {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = insert(r.actions[name], callback{priority: priority, order: r.next(), action: fn})
}

// ApplyFilters threads value through every filter registered under name and
// returns the final result. Without filters the value is returned unchanged.
func (r *Registry) ApplyFilters(ctx context.Context, name string, value any, args ...any) any {
	for _, cb := range r.snapshot(r.filtersFor, name) {
		value = cb.filter(ctx, value, args...)
	}
	return value
}

// DoAction runs every action registered under name. Callbacks receive a
// context for which Doing(ctx, name) reports true.
func (r *Registry) DoAction(ctx context.Context, name string, args ...any) {
	callbacks := r.snapshot(r.actionsFor, name)
	if len(callbacks) == 0 {
		return
	}
	ctx = WithAction(ctx, name)
	for _, cb := range callbacks {
		cb.action(ctx, args...)
	}
}

// HasFilter reports whether any filter is registered under name.
func (r *Registry) HasFilter(name string) bool {
	return len(r.snapshot(r.filtersFor, name)) > 0
}

// HasAction reports whether any action is registered under name.
func (r *Registry) HasAction(name string) bool {
	return len(r.snapshot(r.actionsFor, name)) > 0
}

// RemoveAll drops every filter and action registered under name.
func (r *Registry) RemoveAll(name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.filters, name)
	delete(r.actions, name)
}

func (r *Registry) next() int {
	r.seq++
	return r.seq
}

func (r *Registry) filtersFor(name string) []callback { return r.filters[name] }

func (r *Registry) actionsFor(name string) []callback { return r.actions[name] }

func (r *Registry) snapshot(lookup func(string) []callback, name string) []callback {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]callback(nil), lookup(strings.TrimSpace(name))...)
}

func insert(list []callback, cb callback) []callback {
	list = append(list, cb)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority == list[j].priority {
			return list[i].order < list[j].order
		}
		return list[i].priority < list[j].priority
	})
	return list
}
