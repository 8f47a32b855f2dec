package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/tendant/simple-rbac/pkg/permission"
	"github.com/tendant/simple-rbac/pkg/role"
	roleapi "github.com/tendant/simple-rbac/pkg/role/api"
)

type RbacDbConfig struct {
	Host     string `env:"RBAC_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"RBAC_PG_PORT" env-default:"5432"`
	Database string `env:"RBAC_PG_DATABASE" env-default:"rbac_db"`
	User     string `env:"RBAC_PG_USER" env-default:"rbac"`
	Password string `env:"RBAC_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"RBAC_PG_SCHEMA" env-default:"public"`
}

func (d RbacDbConfig) toDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

type Config struct {
	RbacDbConfig RbacDbConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	// Load .env file if it exists (before reading environment variables)
	if err := godotenv.Load(); err == nil {
		slog.Info("Configuration loaded from .env file")
	}

	config := Config{}
	cleanenv.ReadEnv(&config)

	roleConfig, err := role.LoadConfig()
	if err != nil {
		slog.Error("Failed to load role config", "err", err)
		os.Exit(-1)
	}
	slog.Info("Role resource configured",
		"types", roleConfig.Types,
		"default_type", roleConfig.DefaultType,
		"seed", roleConfig.Seed)

	dbURL := config.RbacDbConfig.toDatabaseURL()
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", config.RbacDbConfig.Database,
			"host", config.RbacDbConfig.Host, "port", config.RbacDbConfig.Port,
			"user", config.RbacDbConfig.User, "schema", config.RbacDbConfig.Schema)
		os.Exit(-1)
	}

	roleRepository := role.NewPostgresRoleRepository(pool)
	permissionChecker := permission.NewPostgresChecker(pool)
	roleService := role.NewRoleService(roleRepository, permissionChecker, roleConfig)

	// Reconcile baseline roles on every boot. Seeding is idempotent, so a
	// partial failure here is recovered on the next start.
	seeded, err := roleService.SeedRoles(context.Background())
	if err != nil {
		slog.Error("Failed to seed roles", "err", err)
		os.Exit(-1)
	}
	slog.Info("Roles seeded", "count", len(seeded))

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)

	roleHandle := roleapi.NewHandle(roleService)
	roleHandle.RegisterRoutes(server.R)

	server.Run()
}
