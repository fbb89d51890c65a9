package messages

const (
	queryAppendMessage = `
		INSERT INTO messages (collaboration_id, sender_id, content, content_type, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, collaboration_id, sender_id, content, content_type, metadata, created_at
	`

	queryPage = `
		SELECT id, collaboration_id, sender_id, content, content_type, metadata, created_at
		FROM messages
		WHERE collaboration_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	queryPageBefore = `
		SELECT id, collaboration_id, sender_id, content, content_type, metadata, created_at
		FROM messages
		WHERE collaboration_id = $1 AND created_at < $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	queryLatestMessage = `
		SELECT id, collaboration_id, sender_id, content, content_type, metadata, created_at
		FROM messages
		WHERE collaboration_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	queryUnreadCount = `
		SELECT COUNT(*)
		FROM messages
		WHERE collaboration_id = $1
		  AND created_at > $2
		  AND (sender_id IS NULL OR sender_id <> $3)
	`

	queryMarkRead = `
		INSERT INTO read_markers (collaboration_id, user_id, last_read_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (collaboration_id, user_id)
		DO UPDATE SET last_read_at = GREATEST(read_markers.last_read_at, EXCLUDED.last_read_at)
	`

	queryLastReadAt = `
		SELECT last_read_at
		FROM read_markers
		WHERE collaboration_id = $1 AND user_id = $2
	`
)
