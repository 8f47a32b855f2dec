// Package role manages the Role resource for authorization-oriented services.
//
// A Role is a named bundle of permission references. The package provides
// role lifecycle management (CRUD operations), an idempotent upsert keyed by
// the role's natural key (its name), declarative seeding of baseline roles
// at boot, and a structural schema for client-side form generation. Storage
// is abstracted behind a repository interface with PostgreSQL and in-memory
// implementations.
//
// # Basic Usage
//
//	import "github.com/tendant/simple-rbac/pkg/role"
//
//	// Create service
//	config, err := role.LoadConfig()
//	repo := role.NewPostgresRoleRepository(pool)
//	service := role.NewRoleService(repo, checker, config)
//
//	// Create a role
//	created, err := service.CreateRole(ctx, role.Role{Name: "Accountant"})
//
//	// Omitted fields are defaulted before validation:
//	// created.Type == "System", created.Description == "Accountant permissions"
//
// # Upsert
//
// Upsert matches an existing role by its identity fields (every candidate
// field except description and permissions) and either inserts or merges:
//
//	seeded, err := service.UpsertRole(ctx, role.Role{Name: "Administrator"})
//	// Running it again converges on the same role, no duplicate is created.
//
// # Seeding
//
// SeedRoles reconciles the baseline roles on every boot. The batch is the
// deduplicated union of the built-in Administrator role, the names declared
// in the ROLE_SEED environment variable, and any roles passed by the caller:
//
//	seeded, err := service.SeedRoles(ctx)
//	seeded, err = service.SeedRoles(ctx, role.Role{Name: "IT Officer"})
//
// Seeding is best-effort: the first upsert failure is surfaced and applied
// upserts stand. Because seeding is idempotent, re-running it completes
// convergence.
//
// # Configuration
//
// Behavior is driven by environment variables:
//
//	ROLE_TYPES           allowed role types (comma separated)
//	DEFAULT_ROLE_TYPE    type applied when a candidate omits one
//	ROLE_SEED            extra role names seeded at boot (comma separated)
//	POPULATION_MAX_DEPTH permission reference expansion depth for reads
//
// # Related Packages
//
//   - pkg/role/api - HTTP facade mounted on chi
//   - pkg/permission - permission collaborator contract
package role
