// Package permission defines the contract the Role resource needs from the
// permission collaborator: referential-integrity checks at write time and
// reference expansion on reads. The permission entity lifecycle itself is
// owned by a separate service.
package permission

import (
	"context"

	"github.com/google/uuid"
)

// Permission is a single referenced access right.
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Wildcard    string    `json:"wildcard"`
	Description string    `json:"description,omitempty"`
}

// Checker resolves permission references.
type Checker interface {
	// FindMissing returns the subset of ids that do not resolve to an
	// existing permission.
	FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// GetByIds returns the permissions for the given ids, in id order.
	// Unknown ids are skipped.
	GetByIds(ctx context.Context, ids []uuid.UUID) ([]Permission, error)
}
