package store

import (
	"context"
	"sync"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/messages"
)

// Memory backs the store with in-memory repositories for tests and local
// development. A store-level mutex serializes atomic scopes; rollback is
// not emulated, which is sound because the negotiation service validates
// and applies transitions in memory before its first repository write.
type Memory struct {
	mu       sync.Mutex
	collabs  *collabs.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemory() *Memory {
	return &Memory{
		collabs:  collabs.NewMemoryRepository(),
		messages: messages.NewMemoryRepository(),
	}
}

func (s *Memory) Within(_ context.Context, fn func(collabs.Repository, messages.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.collabs, s.messages)
}

func (s *Memory) Collabs() collabs.Repository {
	return s.collabs
}

func (s *Memory) Messages() messages.Repository {
	return s.messages
}
