package role

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededNames(t *testing.T, service *RoleService) map[string]int {
	t.Helper()

	page, err := service.FindRoles(context.Background(), ListParams{Limit: 100})
	require.NoError(t, err)

	names := make(map[string]int)
	for _, role := range page.Data {
		names[role.Name]++
	}
	return names
}

func TestSeedMandatoryAdministrator(t *testing.T) {
	ctx := context.Background()
	service, _ := setupTestService(testConfig())

	seeded, err := service.SeedRoles(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 1)

	assert.Equal(t, RoleAdministrator, seeded[0].Name)
	// the synthesized description equals the name, so derivation does not
	// override it
	assert.Equal(t, RoleAdministrator, seeded[0].Description)
	assert.Equal(t, "System", seeded[0].Type)
}

func TestSeedFromConfig(t *testing.T) {
	ctx := context.Background()
	config := testConfig()
	config.Seed = []string{"IT Officer", "Billing Officer"}
	service, _ := setupTestService(config)

	seeded, err := service.SeedRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, 3)

	names := seededNames(t, service)
	assert.Equal(t, 1, names["Administrator"])
	assert.Equal(t, 1, names["IT Officer"])
	assert.Equal(t, 1, names["Billing Officer"])
}

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	config := testConfig()
	config.Seed = []string{"IT Officer", "Billing Officer"}
	service, _ := setupTestService(config)

	_, err := service.SeedRoles(ctx)
	require.NoError(t, err)
	first := seededNames(t, service)

	_, err = service.SeedRoles(ctx)
	require.NoError(t, err)
	second := seededNames(t, service)

	assert.Equal(t, first, second)
	for name, count := range second {
		assert.Equal(t, 1, count, "duplicate role %q", name)
	}
}

func TestSeedProvidedRoles(t *testing.T) {
	ctx := context.Background()
	service, _ := setupTestService(testConfig())

	seeded, err := service.SeedRoles(ctx, Role{Name: "IT Officer"})
	require.NoError(t, err)
	assert.Len(t, seeded, 2)

	names := seededNames(t, service)
	assert.Equal(t, 1, names["Administrator"])
	assert.Equal(t, 1, names["IT Officer"])
}

func TestSeedDedupesFirstSeenWins(t *testing.T) {
	ctx := context.Background()
	config := testConfig()
	config.Seed = []string{"IT Officer", "Administrator"}
	service, _ := setupTestService(config)

	// the caller-supplied duplicate is silently dropped, so the built-in
	// Administrator shape wins
	seeded, err := service.SeedRoles(ctx,
		Role{Name: "Administrator", Description: "late duplicate"},
		Role{Name: "IT Officer"},
		Role{Name: "Billing Officer"},
	)
	require.NoError(t, err)
	assert.Len(t, seeded, 3)

	admin, err := service.repo.FindRoleByIdentity(ctx, "Administrator", "")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", admin.Description)

	names := seededNames(t, service)
	assert.Len(t, names, 3)
}

func TestSeedConvergesWithSuperset(t *testing.T) {
	ctx := context.Background()
	service, _ := setupTestService(testConfig())

	_, err := service.SeedRoles(ctx)
	require.NoError(t, err)

	_, err = service.SeedRoles(ctx, Role{Name: "IT Officer"}, Role{Name: "Billing Officer"})
	require.NoError(t, err)

	names := seededNames(t, service)
	assert.Len(t, names, 3)
	for name, count := range names {
		assert.Equal(t, 1, count, "duplicate role %q", name)
	}
}
