package role

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage.
// It enforces the same unique-name constraint the Postgres schema does, so
// service behavior matches across backends.
type InMemoryRoleRepository struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]Role
}

// NewInMemoryRoleRepository creates a new in-memory role repository.
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles: make(map[uuid.UUID]Role),
	}
}

func (r *InMemoryRoleRepository) matched(params ListParams) []Role {
	var roles []Role
	for _, role := range r.roles {
		if params.Type != "" && role.Type != params.Type {
			continue
		}
		if params.Search != "" {
			q := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(role.Name), q) &&
				!strings.Contains(strings.ToLower(role.Description), q) &&
				!strings.Contains(strings.ToLower(role.Type), q) {
				continue
			}
		}
		roles = append(roles, copyRole(role))
	}

	desc := params.SortDir == "desc"
	sort.Slice(roles, func(i, j int) bool {
		var less bool
		switch params.SortBy {
		case "type":
			less = roles[i].Type < roles[j].Type
		case "created_at", "createdAt":
			less = roles[i].CreatedAt.Before(roles[j].CreatedAt)
		case "updated_at", "updatedAt":
			less = roles[i].UpdatedAt.Before(roles[j].UpdatedAt)
		default:
			less = roles[i].Name < roles[j].Name
		}
		if desc {
			return !less
		}
		return less
	})
	return roles
}

// ListRoles returns a page of roles matching the filter.
func (r *InMemoryRoleRepository) ListRoles(ctx context.Context, params ListParams) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := r.matched(params)
	if params.Limit <= 0 {
		return roles, nil
	}

	start := int(params.Skip)
	if start > len(roles) {
		start = len(roles)
	}
	end := start + int(params.Limit)
	if end > len(roles) {
		end = len(roles)
	}
	return roles[start:end], nil
}

// CountRoles returns the number of roles matching the filter.
func (r *InMemoryRoleRepository) CountRoles(ctx context.Context, params ListParams) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matched(params))), nil
}

// LastModified returns the most recent update timestamp across the matched set.
func (r *InMemoryRoleRepository) LastModified(ctx context.Context, params ListParams) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lastModified *time.Time
	for _, role := range r.matched(params) {
		if lastModified == nil || role.UpdatedAt.After(*lastModified) {
			updatedAt := role.UpdatedAt
			lastModified = &updatedAt
		}
	}
	return lastModified, nil
}

// GetRoleById retrieves a role by id.
func (r *InMemoryRoleRepository) GetRoleById(ctx context.Context, id uuid.UUID) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, NotFoundError{ID: id}
	}
	return copyRole(role), nil
}

// FindRoleByIdentity looks up a role by name, and type when supplied.
func (r *InMemoryRoleRepository) FindRoleByIdentity(ctx context.Context, name, roleType string) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name != name {
			continue
		}
		if roleType != "" && role.Type != roleType {
			continue
		}
		return copyRole(role), nil
	}
	return Role{}, NotFoundError{}
}

// CreateRole creates a new role.
func (r *InMemoryRoleRepository) CreateRole(ctx context.Context, role Role) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return Role{}, ConflictError{Name: role.Name}
		}
	}

	now := time.Now().UTC()
	role.ID = uuid.New()
	role.CreatedAt = now
	role.UpdatedAt = now
	r.roles[role.ID] = copyRole(role)
	return role, nil
}

// UpdateRole replaces a role's content fields by id.
func (r *InMemoryRoleRepository) UpdateRole(ctx context.Context, role Role) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.roles[role.ID]
	if !ok {
		return Role{}, NotFoundError{ID: role.ID}
	}
	for id, other := range r.roles {
		if id != role.ID && other.Name == role.Name {
			return Role{}, ConflictError{Name: role.Name}
		}
	}

	role.CreatedAt = existing.CreatedAt
	role.UpdatedAt = time.Now().UTC()
	r.roles[role.ID] = copyRole(role)
	return role, nil
}

// DeleteRole removes a role and returns the deleted representation.
func (r *InMemoryRoleRepository) DeleteRole(ctx context.Context, id uuid.UUID) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, NotFoundError{ID: id}
	}
	delete(r.roles, id)
	return role, nil
}

func copyRole(role Role) Role {
	if role.Permissions != nil {
		permissions := make([]uuid.UUID, len(role.Permissions))
		copy(permissions, role.Permissions)
		role.Permissions = permissions
	}
	role.PermissionDetails = nil
	return role
}
