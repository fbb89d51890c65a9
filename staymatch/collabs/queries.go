package collabs

const (
	collaborationColumns = `
		id, hotel_id, creator_id, listing_id, initiator_party, status,
		terms, terms_version,
		hotel_approved_version, hotel_approved_at,
		creator_approved_version, creator_approved_at,
		created_at, responded_at, cancelled_at, completed_at
	`

	queryCreateCollaboration = `
		INSERT INTO collaborations (hotel_id, creator_id, listing_id, initiator_party, status, terms, terms_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + collaborationColumns

	queryGetCollaboration = `
		SELECT ` + collaborationColumns + `
		FROM collaborations
		WHERE id = $1
	`

	queryGetCollaborationForUpdate = `
		SELECT ` + collaborationColumns + `
		FROM collaborations
		WHERE id = $1
		FOR UPDATE
	`

	queryUpdateCollaboration = `
		UPDATE collaborations
		SET status = $2,
			terms = $3,
			terms_version = $4,
			hotel_approved_version = $5,
			hotel_approved_at = $6,
			creator_approved_version = $7,
			creator_approved_at = $8,
			responded_at = $9,
			cancelled_at = $10,
			completed_at = $11
		WHERE id = $1
	`

	queryListCollaborationsForUser = `
		SELECT ` + collaborationColumns + `
		FROM collaborations
		WHERE hotel_id = $1 OR creator_id = $1
		ORDER BY created_at DESC
	`

	queryInsertDeliverable = `
		INSERT INTO deliverables (id, collaboration_id, platform, type, quantity, completed, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	queryListDeliverables = `
		SELECT id, platform, type, quantity, completed
		FROM deliverables
		WHERE collaboration_id = $1
		ORDER BY position
	`

	querySetDeliverableCompleted = `
		UPDATE deliverables
		SET completed = $3
		WHERE collaboration_id = $1 AND id = $2
	`
)
