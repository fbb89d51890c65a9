package messages

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessages(t *testing.T, repo *MemoryRepository, collaborationID string, count int, start time.Time) []*Message {
	t.Helper()
	ctx := context.Background()
	sender := "hotel-1"

	seeded := make([]*Message, 0, count)

	for i := 0; i < count; i++ {
		m, err := repo.Append(ctx, &Message{
			CollaborationID: collaborationID,
			SenderID:        &sender,
			Content:         fmt.Sprintf("message %d", i),
			ContentType:     ContentTypeText,
			CreatedAt:       start.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		seeded = append(seeded, m)
	}

	return seeded
}

func TestAppend_AssignsIDAndMonotonicTimestamp(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	at := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	sender := "hotel-1"

	first, err := repo.Append(ctx, &Message{
		CollaborationID: "c1",
		SenderID:        &sender,
		Content:         "first",
		ContentType:     ContentTypeText,
		CreatedAt:       at,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	// same wall-clock timestamp must still order after the first message
	second, err := repo.Append(ctx, &Message{
		CollaborationID: "c1",
		SenderID:        &sender,
		Content:         "second",
		ContentType:     ContentTypeText,
		CreatedAt:       at,
	})
	require.NoError(t, err)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
}

func TestPage_DescendingWithCursor(t *testing.T) {
	repo := NewMemoryRepository()
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	seeded := seedMessages(t, repo, "c1", 10, start)

	page, err := repo.Page(context.Background(), "c1", nil, 4)

	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, seeded[9].ID, page[0].ID, "no cursor returns the newest messages first")
	assert.Equal(t, seeded[6].ID, page[3].ID)

	cursor := page[3].CreatedAt
	older, err := repo.Page(context.Background(), "c1", &cursor, 4)

	require.NoError(t, err)
	require.Len(t, older, 4)
	for _, m := range older {
		assert.True(t, m.CreatedAt.Before(cursor), "cursor bound is exclusive")
	}
	assert.Equal(t, seeded[5].ID, older[0].ID)
}

func TestPage_ExhaustionScenario(t *testing.T) {
	// 120 messages, page size 50: 50 + 50 + 20
	repo := NewMemoryRepository()
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedMessages(t, repo, "c1", 120, start)
	ctx := context.Background()

	first, err := repo.Page(ctx, "c1", nil, PageSize)
	require.NoError(t, err)
	require.Len(t, first, PageSize)

	cursor := first[len(first)-1].CreatedAt
	second, err := repo.Page(ctx, "c1", &cursor, PageSize)
	require.NoError(t, err)
	require.Len(t, second, PageSize)

	cursor = second[len(second)-1].CreatedAt
	third, err := repo.Page(ctx, "c1", &cursor, PageSize)
	require.NoError(t, err)
	require.Len(t, third, 20, "final page carries the remainder")

	// monotonic exhaustion: a short page is never followed by more messages
	cursor = third[len(third)-1].CreatedAt
	fourth, err := repo.Page(ctx, "c1", &cursor, PageSize)
	require.NoError(t, err)
	assert.Empty(t, fourth)
}

func TestPage_IsolatedPerCollaboration(t *testing.T) {
	repo := NewMemoryRepository()
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	seedMessages(t, repo, "c1", 3, start)
	seedMessages(t, repo, "c2", 5, start)

	page, err := repo.Page(context.Background(), "c1", nil, PageSize)

	require.NoError(t, err)
	assert.Len(t, page, 3)
}

func TestUnreadCount_ExcludesOwnMessages(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	at := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	hotel := "hotel-1"
	creator := "creator-1"

	for i, sender := range []*string{&hotel, &creator, nil, &creator} {
		_, err := repo.Append(ctx, &Message{
			CollaborationID: "c1",
			SenderID:        sender,
			Content:         "m",
			ContentType:     ContentTypeText,
			CreatedAt:       at.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	// hotel viewer: creator's two messages plus the system message
	count, err := repo.UnreadCount(ctx, "c1", hotel, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// marker after the second message leaves the last two unread
	count, err = repo.UnreadCount(ctx, "c1", hotel, at.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMarkRead_IdempotentAndMonotonic(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	at := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.MarkRead(ctx, "c1", "hotel-1", at))
	require.NoError(t, repo.MarkRead(ctx, "c1", "hotel-1", at))

	lastRead, err := repo.LastReadAt(ctx, "c1", "hotel-1")
	require.NoError(t, err)
	assert.Equal(t, at, lastRead)

	// the marker never moves backwards
	require.NoError(t, repo.MarkRead(ctx, "c1", "hotel-1", at.Add(-time.Hour)))

	lastRead, err = repo.LastReadAt(ctx, "c1", "hotel-1")
	require.NoError(t, err)
	assert.Equal(t, at, lastRead)
}

func TestLastReadAt_ZeroWhenNeverMarked(t *testing.T) {
	repo := NewMemoryRepository()

	lastRead, err := repo.LastReadAt(context.Background(), "c1", "hotel-1")

	require.NoError(t, err)
	assert.True(t, lastRead.IsZero())
}

func TestLatest(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	latest, err := repo.Latest(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, latest)

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	seeded := seedMessages(t, repo, "c1", 3, start)

	latest, err = repo.Latest(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, seeded[2].ID, latest.ID)
}
