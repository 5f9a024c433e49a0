// Package store holds the ground facts of the knowledge base. It is a
// dumb container: inserts are unconditional and idempotent, and every
// domain validity rule lives in the consistency checker, never here.
// Synchronization is owned by the facade; the store itself is not safe
// for concurrent mutation.
package store

import (
	"strings"

	"kindred/internal/relation"
)

// Store is the in-memory ground-fact database for the three base
// predicates.
type Store struct {
	facts map[relation.Predicate]map[string][]string
}

// New returns an empty store.
func New() *Store {
	return &Store{facts: make(map[relation.Predicate]map[string][]string)}
}

func key(args []string) string {
	return strings.Join(args, "\x00")
}

// Add inserts a ground fact. Re-adding an existing fact is a no-op;
// the return value reports whether the fact is new.
func (s *Store) Add(pred relation.Predicate, args ...string) bool {
	byKey, ok := s.facts[pred]
	if !ok {
		byKey = make(map[string][]string)
		s.facts[pred] = byKey
	}
	k := key(args)
	if _, exists := byKey[k]; exists {
		return false
	}
	stored := make([]string, len(args))
	copy(stored, args)
	byKey[k] = stored
	return true
}

// Has is an exact-match membership test.
func (s *Store) Has(pred relation.Predicate, args ...string) bool {
	byKey, ok := s.facts[pred]
	if !ok {
		return false
	}
	_, exists := byKey[key(args)]
	return exists
}

// Match answers a one-free-slot query over a binary predicate and
// returns the bindings for the free position. A fully bound pattern
// yields at most one binding (the bound value itself) and is normally
// asked through Has instead.
func (s *Store) Match(pred relation.Predicate, pat relation.Pattern) []string {
	byKey, ok := s.facts[pred]
	if !ok {
		return nil
	}
	var out []string
	for _, args := range byKey {
		if len(args) != 2 {
			continue
		}
		switch pat.Free {
		case relation.FirstFree:
			if args[1] == pat.Second {
				out = append(out, args[0])
			}
		case relation.SecondFree:
			if args[0] == pat.First {
				out = append(out, args[1])
			}
		case relation.BothBound:
			if args[0] == pat.First && args[1] == pat.Second {
				out = append(out, args[0])
			}
		}
	}
	return out
}

// Each calls fn for every stored fact of pred.
func (s *Store) Each(pred relation.Predicate, fn func(args []string)) {
	for _, args := range s.facts[pred] {
		fn(args)
	}
}

// Count returns the total number of stored ground facts.
func (s *Store) Count() int {
	n := 0
	for _, byKey := range s.facts {
		n += len(byKey)
	}
	return n
}

// CountPred returns the number of stored facts for one predicate.
func (s *Store) CountPred(pred relation.Predicate) int {
	return len(s.facts[pred])
}
