// Package store composes the collaboration and message repositories behind
// a single atomic scope. Every state-mutating negotiation operation runs
// inside Within so the transition, approval/deliverable updates and the
// narration message commit together or not at all.
package store

import (
	"context"

	"codeberg.org/staymatch/server/staymatch/collabs"
	"codeberg.org/staymatch/server/staymatch/messages"
)

type Store interface {
	// Within runs fn in one atomic scope; mutations made through the
	// repositories passed to fn commit together or roll back together
	Within(ctx context.Context, fn func(collabs.Repository, messages.Repository) error) error

	// non-transactional repositories for plain reads
	Collabs() collabs.Repository
	Messages() messages.Repository
}
