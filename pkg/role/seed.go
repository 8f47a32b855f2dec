package role

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SeedRoles makes sure the baseline roles exist, upserting the deduplicated
// union of three sources in precedence order: the built-in Administrator
// role, the names declared in ROLE_SEED, and any caller-supplied roles.
// Duplicate names are dropped, first seen wins.
//
// The batch is upserted concurrently; by construction every entry targets a
// distinct name, so the upserts are independent. The first failure is
// returned and already-applied upserts are not rolled back. Seeding is
// idempotent, so callers recover by invoking it again.
func (s *RoleService) SeedRoles(ctx context.Context, provided ...Role) ([]Role, error) {
	var batch []Role
	seen := make(map[string]bool)

	add := func(candidate Role) {
		name := strings.TrimSpace(candidate.Name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		candidate.Name = name
		batch = append(batch, candidate)
	}

	add(Role{Name: RoleAdministrator, Description: RoleAdministrator})
	for _, name := range s.config.Seed {
		add(Role{Name: name, Description: strings.TrimSpace(name)})
	}
	for _, candidate := range provided {
		add(candidate)
	}

	seeded := make([]Role, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	for i, candidate := range batch {
		g.Go(func() error {
			result, err := s.UpsertRole(ctx, candidate)
			if err != nil {
				return fmt.Errorf("failed to seed role %q: %w", candidate.Name, err)
			}
			seeded[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return seeded, nil
}
