package role

import (
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-rbac/pkg/permission"
)

// RoleAdministrator is the mandatory built-in role. Seeding always ensures
// it exists, regardless of environment or caller-supplied seeds.
const RoleAdministrator = "Administrator"

// DefaultPageLimit is used when a list request does not specify a limit.
const DefaultPageLimit = 10

// Role is a named bundle of permission references.
//
// A nil Permissions slice means "no permissions assigned", which is the
// steady state for most roles. An empty non-nil slice is collapsed to nil
// during pre-validation so storage never holds an empty list.
type Role struct {
	ID          uuid.UUID   `json:"id"`
	Type        string      `json:"type,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Permissions []uuid.UUID `json:"permissions,omitempty"`

	// PermissionDetails carries the expanded permission references when
	// population is requested. It is derived on read and never persisted.
	PermissionDetails []permission.Permission `json:"permissionDetails,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RolePage is the pagination envelope returned by FindRoles.
type RolePage struct {
	Data         []Role     `json:"data"`
	Total        int64      `json:"total"`
	Size         int        `json:"size"`
	Limit        int32      `json:"limit"`
	Skip         int32      `json:"skip"`
	Page         int32      `json:"page"`
	Pages        int32      `json:"pages"`
	LastModified *time.Time `json:"lastModified"`
}
