// Package includestore provides lucene.IncludeResolver implementations that
// back @include references with stored query text, either held in memory or
// loaded from disk.
package includestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/foundatiofx/go-lucene/pkg/lucene"
)

// Definition is one named, stored piece of query text an @include reference
// can resolve to.
type Definition struct {
	ID    string
	Name  string
	Query string
}

// Store is an in-memory, concurrency-safe table of include definitions.
type Store struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{defs: make(map[string]Definition)}
}

// Put records or replaces the definition for name, minting a new ULID for
// it, and returns the stored Definition.
func (s *Store) Put(name, query string) Definition {
	def := Definition{ID: ulid.Make().String(), Name: name, Query: query}
	s.mu.Lock()
	s.defs[name] = def
	s.mu.Unlock()
	return def
}

// Get returns the definition stored under name, if any.
func (s *Store) Get(name string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.defs[name]
	return def, ok
}

// Delete removes the definition stored under name, if any.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	delete(s.defs, name)
	s.mu.Unlock()
}

// List returns every stored definition, in no particular order.
func (s *Store) List() []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Definition, 0, len(s.defs))
	for _, def := range s.defs {
		out = append(out, def)
	}
	return out
}

// LoadDefinitions stores every definition in defs, as produced by
// ParseDefinitions, through Put: a definition whose name is already stored
// replaces the existing entry.
func (s *Store) LoadDefinitions(defs []ParsedDefinition) {
	for _, d := range defs {
		s.Put(d.Name, d.Query)
	}
}

// Resolver returns a lucene.IncludeResolver backed by this store. An unknown
// name resolves to ("", nil): the include visitor records it as unresolved
// rather than erroring, matching an absent file or a never-registered name.
func (s *Store) Resolver() lucene.IncludeResolver {
	return func(_ context.Context, name string) (string, error) {
		def, ok := s.Get(name)
		if !ok {
			return "", nil
		}
		return def.Query, nil
	}
}

// ErrNotFound reports a missing include definition. Neither Store.Resolver
// nor FileBackedResolver returns it: both resolve an unknown name to ("", nil).
var ErrNotFound = fmt.Errorf("includestore: definition not found")
