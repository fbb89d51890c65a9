package collabs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used in tests and local
// development. The store-level transaction scope provides write
// serialization; the internal mutex guards direct reads.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Collaboration
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*Collaboration),
		now:     time.Now,
	}
}

func (m *MemoryRepository) Create(_ context.Context, c *Collaboration) (*Collaboration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := clone(c)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}

	m.records[stored.ID] = stored
	return clone(stored), nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*Collaboration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	return clone(stored), nil
}

func (m *MemoryRepository) GetForUpdate(ctx context.Context, id string) (*Collaboration, error) {
	return m.Get(ctx, id)
}

func (m *MemoryRepository) Update(_ context.Context, c *Collaboration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[c.ID]
	if !ok {
		return ErrNotFound
	}

	updated := clone(c)
	updated.CreatedAt = stored.CreatedAt
	updated.Deliverables = stored.Deliverables // managed via deliverable methods
	m.records[c.ID] = updated

	return nil
}

func (m *MemoryRepository) InsertDeliverables(_ context.Context, collaborationID string, ds []Deliverable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[collaborationID]
	if !ok {
		return ErrNotFound
	}

	stored.Deliverables = append(stored.Deliverables, ds...)
	return nil
}

func (m *MemoryRepository) SetDeliverableCompleted(_ context.Context, collaborationID, deliverableID string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[collaborationID]
	if !ok {
		return ErrNotFound
	}

	for i := range stored.Deliverables {
		if stored.Deliverables[i].ID == deliverableID {
			stored.Deliverables[i].Completed = completed
			return nil
		}
	}

	return ErrDeliverableNotFound
}

func (m *MemoryRepository) ListForUser(_ context.Context, userID string) ([]*Collaboration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var collaborations []*Collaboration

	for _, stored := range m.records {
		if stored.HotelID == userID || stored.CreatorID == userID {
			collaborations = append(collaborations, clone(stored))
		}
	}

	sort.Slice(collaborations, func(i, j int) bool {
		return collaborations[i].CreatedAt.After(collaborations[j].CreatedAt)
	})

	return collaborations, nil
}

// deep-copies the aggregate. Terms values are immutable by contract, so the
// shared slices inside them are safe to alias.
func clone(c *Collaboration) *Collaboration {
	copied := *c

	if c.HotelApproval != nil {
		approval := *c.HotelApproval
		copied.HotelApproval = &approval
	}

	if c.CreatorApproval != nil {
		approval := *c.CreatorApproval
		copied.CreatorApproval = &approval
	}

	if c.Deliverables != nil {
		copied.Deliverables = make([]Deliverable, len(c.Deliverables))
		copy(copied.Deliverables, c.Deliverables)
	}

	copied.RespondedAt = cloneTime(c.RespondedAt)
	copied.CancelledAt = cloneTime(c.CancelledAt)
	copied.CompletedAt = cloneTime(c.CompletedAt)

	return &copied
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	copied := *t
	return &copied
}
