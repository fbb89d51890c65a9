package messages

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type readKey struct {
	collaborationID string
	userID          string
}

// MemoryRepository is an in-memory Repository used in tests and local
// development. Logs are kept ascending by (created_at, id); pages read
// from the tail.
type MemoryRepository struct {
	mu      sync.RWMutex
	logs    map[string][]*Message
	markers map[readKey]time.Time
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		logs:    make(map[string][]*Message),
		markers: make(map[readKey]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRepository) Append(_ context.Context, msg *Message) (*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *msg
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}

	// keep the ordering key monotonic within the collaboration
	log := m.logs[msg.CollaborationID]
	if n := len(log); n > 0 && !stored.CreatedAt.After(log[n-1].CreatedAt) {
		stored.CreatedAt = log[n-1].CreatedAt.Add(time.Nanosecond)
	}

	m.logs[msg.CollaborationID] = append(log, &stored)

	appended := stored
	return &appended, nil
}

func (m *MemoryRepository) Page(_ context.Context, collaborationID string, before *time.Time, limit int) ([]*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.logs[collaborationID]
	var page []*Message

	for i := len(log) - 1; i >= 0 && len(page) < limit; i-- {
		if before != nil && !log[i].CreatedAt.Before(*before) {
			continue
		}
		copied := *log[i]
		page = append(page, &copied)
	}

	return page, nil
}

func (m *MemoryRepository) Latest(_ context.Context, collaborationID string) (*Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.logs[collaborationID]
	if len(log) == 0 {
		return nil, nil
	}

	copied := *log[len(log)-1]
	return &copied, nil
}

func (m *MemoryRepository) UnreadCount(_ context.Context, collaborationID, viewerID string, lastReadAt time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for _, msg := range m.logs[collaborationID] {
		if !msg.CreatedAt.After(lastReadAt) {
			continue
		}
		if msg.SenderID != nil && *msg.SenderID == viewerID {
			continue
		}
		count++
	}

	return count, nil
}

func (m *MemoryRepository) MarkRead(_ context.Context, collaborationID, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := readKey{collaborationID: collaborationID, userID: userID}
	if current, ok := m.markers[key]; ok && current.After(at) {
		return nil
	}

	m.markers[key] = at
	return nil
}

func (m *MemoryRepository) LastReadAt(_ context.Context, collaborationID, userID string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.markers[readKey{collaborationID: collaborationID, userID: userID}], nil
}
