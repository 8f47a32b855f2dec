package permission

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryChecker implements Checker against an in-memory permission set.
type InMemoryChecker struct {
	mu          sync.RWMutex
	permissions map[uuid.UUID]Permission
}

// NewInMemoryChecker creates a new in-memory permission checker.
func NewInMemoryChecker() *InMemoryChecker {
	return &InMemoryChecker{
		permissions: make(map[uuid.UUID]Permission),
	}
}

// SeedPermission adds a permission directly (for testing/initialization).
func (c *InMemoryChecker) SeedPermission(p Permission) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	c.permissions[p.ID] = p
}

// FindMissing returns the ids with no matching permission.
func (c *InMemoryChecker) FindMissing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := c.permissions[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// GetByIds returns the permissions matching the given ids.
func (c *InMemoryChecker) GetByIds(ctx context.Context, ids []uuid.UUID) ([]Permission, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Permission, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.permissions[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}
