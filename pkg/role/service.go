package role

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/tendant/simple-rbac/pkg/permission"
)

// RoleService provides methods for role management.
type RoleService struct {
	repo        RoleRepository
	permissions permission.Checker
	config      Config
}

// NewRoleService creates a new role service.
func NewRoleService(repo RoleRepository, permissions permission.Checker, config Config) *RoleService {
	if len(config.Types) == 0 {
		config.Types = []string{config.DefaultType}
	}
	return &RoleService{
		repo:        repo,
		permissions: permissions,
		config:      config,
	}
}

// preValidate applies defaulting to a candidate before validation:
// type falls back to the configured default, description is derived from
// the name, and an empty permissions list is collapsed to unset.
func (s *RoleService) preValidate(role *Role) {
	role.Type = strings.TrimSpace(role.Type)
	role.Name = strings.TrimSpace(role.Name)
	role.Description = strings.TrimSpace(role.Description)

	if role.Type == "" {
		role.Type = s.config.DefaultType
	}
	if role.Description == "" && role.Name != "" {
		role.Description = role.Name + " permissions"
	}
	if role.Permissions != nil && len(role.Permissions) == 0 {
		role.Permissions = nil
	}
}

func (s *RoleService) validate(ctx context.Context, role *Role) error {
	fields := make(map[string]string)

	if role.Name == "" {
		fields["name"] = "name is required"
	}
	if !slices.Contains(s.config.Types, role.Type) {
		fields["type"] = fmt.Sprintf("type %q is not allowed", role.Type)
	}
	if len(role.Permissions) > 0 {
		missing, err := s.permissions.FindMissing(ctx, role.Permissions)
		if err != nil {
			return fmt.Errorf("failed to check permission references: %w", err)
		}
		if len(missing) > 0 {
			fields["permissions"] = fmt.Sprintf("permission %s does not exist", missing[0])
		}
	}

	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}
	return nil
}

// FindRoles retrieves a page of roles wrapped in the pagination envelope.
func (s *RoleService) FindRoles(ctx context.Context, params ListParams) (*RolePage, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultPageLimit
	}
	if params.Skip < 0 {
		params.Skip = 0
	}

	roles, err := s.repo.ListRoles(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	total, err := s.repo.CountRoles(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	lastModified, err := s.repo.LastModified(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get last modified: %w", err)
	}

	if params.Populate {
		for i := range roles {
			if err := s.populate(ctx, &roles[i]); err != nil {
				return nil, err
			}
		}
	}

	if roles == nil {
		roles = []Role{}
	}
	pages := int32((total + int64(params.Limit) - 1) / int64(params.Limit))

	return &RolePage{
		Data:         roles,
		Total:        total,
		Size:         len(roles),
		Limit:        params.Limit,
		Skip:         params.Skip,
		Page:         params.Skip/params.Limit + 1,
		Pages:        pages,
		LastModified: lastModified,
	}, nil
}

// GetRole retrieves a role by id, expanding permission references when
// populate is requested.
func (s *RoleService) GetRole(ctx context.Context, id uuid.UUID, populate bool) (Role, error) {
	role, err := s.repo.GetRoleById(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if populate {
		if err := s.populate(ctx, &role); err != nil {
			return Role{}, err
		}
	}
	return role, nil
}

// CreateRole adds a new role after defaulting and validation.
func (s *RoleService) CreateRole(ctx context.Context, candidate Role) (Role, error) {
	s.preValidate(&candidate)
	if err := s.validate(ctx, &candidate); err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, candidate)
}

// PatchRole partially merges the candidate onto an existing role, then runs
// defaulting and validation on the merged result.
func (s *RoleService) PatchRole(ctx context.Context, id uuid.UUID, candidate Role) (Role, error) {
	existing, err := s.repo.GetRoleById(ctx, id)
	if err != nil {
		return Role{}, err
	}

	merged := existing
	if err := copier.CopyWithOption(&merged, &candidate, copier.Option{IgnoreEmpty: true}); err != nil {
		return Role{}, fmt.Errorf("failed to merge role: %w", err)
	}
	// copier skips empty slices, but a non-nil empty permissions list
	// means "clear them", which preValidate then collapses to unset.
	if candidate.Permissions != nil {
		merged.Permissions = candidate.Permissions
	}
	merged.ID = existing.ID

	s.preValidate(&merged)
	if err := s.validate(ctx, &merged); err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, merged)
}

// PutRole replaces an existing role's content with the candidate, still
// passing the result through defaulting and validation.
func (s *RoleService) PutRole(ctx context.Context, id uuid.UUID, candidate Role) (Role, error) {
	existing, err := s.repo.GetRoleById(ctx, id)
	if err != nil {
		return Role{}, err
	}

	candidate.ID = existing.ID
	candidate.CreatedAt = existing.CreatedAt

	s.preValidate(&candidate)
	if err := s.validate(ctx, &candidate); err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, candidate)
}

// DeleteRole removes a role and returns the deleted representation. Deleting
// the same id twice yields a NotFoundError on the second call.
func (s *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) (Role, error) {
	return s.repo.DeleteRole(ctx, id)
}

// UpsertRole creates or updates a role matched by its identity fields: all
// candidate fields except description and permissions, which in practice
// means name plus type when one is supplied. Two candidates with the same
// name but different descriptions are the same logical role. This loose
// matching is what lets repeated seeding converge; it also means upsert
// cannot change identity and content fields atomically.
//
// The lookup and the write are not wrapped in a transaction. Concurrent
// upserts for the same new name can race; the unique index on name is the
// persistence layer's last line of defense and surfaces as a ConflictError.
func (s *RoleService) UpsertRole(ctx context.Context, candidate Role) (Role, error) {
	name := strings.TrimSpace(candidate.Name)
	roleType := strings.TrimSpace(candidate.Type)

	found, err := s.repo.FindRoleByIdentity(ctx, name, roleType)
	if err != nil {
		var notFound NotFoundError
		if errors.As(err, &notFound) {
			return s.CreateRole(ctx, candidate)
		}
		return Role{}, fmt.Errorf("failed to find role %q: %w", name, err)
	}

	merged := found
	if err := copier.CopyWithOption(&merged, &candidate, copier.Option{IgnoreEmpty: true}); err != nil {
		return Role{}, fmt.Errorf("failed to merge role: %w", err)
	}
	if candidate.Permissions != nil {
		merged.Permissions = candidate.Permissions
	}
	merged.ID = found.ID

	s.preValidate(&merged)
	if err := s.validate(ctx, &merged); err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, merged)
}

func (s *RoleService) populate(ctx context.Context, role *Role) error {
	if len(role.Permissions) == 0 || s.config.PopulationMaxDepth < 1 {
		return nil
	}
	details, err := s.permissions.GetByIds(ctx, role.Permissions)
	if err != nil {
		return fmt.Errorf("failed to populate permissions: %w", err)
	}
	role.PermissionDetails = details
	return nil
}
