package role

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ValidationError is returned when a role candidate fails pre-validation,
// keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("role validation failed: %s", strings.Join(parts, "; "))
}

// NotFoundError is returned when an operation targets a nonexistent role.
type NotFoundError struct {
	ID uuid.UUID
}

func (e NotFoundError) Error() string {
	if e.ID == uuid.Nil {
		return "role not found"
	}
	return fmt.Sprintf("role not found: %s", e.ID)
}

// ConflictError is returned when the unique index on name rejects a write.
// Concurrent upserts for the same new name can race into this; retrying the
// same write would not change the outcome.
type ConflictError struct {
	Name string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("role name already exists: %s", e.Name)
}
