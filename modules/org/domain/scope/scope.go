// Package scope defines the visibility set computed for an actor: the
// profile ids whose records the actor may view or act on.
package scope

import "github.com/google/uuid"

type Set map[uuid.UUID]struct{}

func New(ids ...uuid.UUID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Add(ids ...uuid.UUID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s Set) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int { return len(s) }

func (s Set) IDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}
