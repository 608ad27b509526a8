// Package lifecycle holds explicit status transition tables.
package lifecycle

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid_transition")

// Table lists, for each status, the statuses it may move to. A status moving
// to itself is always allowed.
type Table[S comparable] struct {
	name  string
	edges map[S]map[S]struct{}
	open  bool
}

// NewTable builds a table from an adjacency list.
func NewTable[S comparable](name string, edges map[S][]S) Table[S] {
	t := Table[S]{name: name, edges: make(map[S]map[S]struct{}, len(edges))}
	for from, targets := range edges {
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
		}
		t.edges[from] = set
	}
	return t
}

// Permissive allows every transition between the given states.
func Permissive[S comparable](name string, states ...S) Table[S] {
	edges := make(map[S][]S, len(states))
	for _, from := range states {
		edges[from] = states
	}
	t := NewTable(name, edges)
	t.open = true
	return t
}

func (t Table[S]) Name() string {
	return t.name
}

// Permissive reports whether the table allows any to any.
func (t Table[S]) Permissive() bool {
	return t.open
}

func (t Table[S]) Allowed(from, to S) bool {
	if from == to {
		return true
	}
	if t.open {
		_, ok := t.edges[to]
		return ok
	}
	targets, ok := t.edges[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Check returns ErrInvalidTransition wrapped with the offending edge.
func (t Table[S]) Check(from, to S) error {
	if t.Allowed(from, to) {
		return nil
	}
	return fmt.Errorf("%s %v -> %v: %w", t.name, from, to, ErrInvalidTransition)
}
