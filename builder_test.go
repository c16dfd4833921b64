package shieldcore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shieldhq/shieldcore/permission"
)

func newTestEngine(t *testing.T, opts ...func(*Builder)) *Engine {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	b := New().WithRedis(rdb)
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func adminPrincipal(e *Engine) *Principal {
	return &Principal{
		UserID:      "admin-1",
		Role:        permission.RoleAdmin,
		Permissions: e.DerivePermissions(permission.RoleAdmin),
	}
}

func TestBuildRequiresStore(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error when neither WithRedis nor WithStore was given")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	b := New().WithRedis(rdb)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestBuildRejectsDeclaredAdminRole(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	_, err = New().
		WithRedis(rdb).
		WithRoles(map[string][]string{
			permission.RoleUser:    {permission.PermDocumentView},
			permission.RoleManager: {permission.PermDocumentView, permission.PermDocumentEdit},
			permission.RoleAdmin:   {permission.PermShieldAdmin},
		}).
		Build()
	if err == nil {
		t.Fatal("expected declared admin role to be rejected")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	cfg := DefaultConfig()
	cfg.Activity.DefaultPageSize = 0

	if _, err := New().WithRedis(rdb).WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

func TestBuildDefaultsAdminToCatalogUnion(t *testing.T) {
	engine := newTestEngine(t)

	admin := engine.DerivePermissions(permission.RoleAdmin)
	if len(admin) != engine.Catalog().Count() {
		t.Fatalf("admin has %d permissions, catalog has %d", len(admin), engine.Catalog().Count())
	}

	for _, token := range engine.DerivePermissions(permission.RoleManager) {
		found := false
		for _, a := range admin {
			if a == token {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("admin missing manager permission %q", token)
		}
	}
}

func TestBuildWithCustomRoles(t *testing.T) {
	engine := newTestEngine(t, func(b *Builder) {
		b.WithRoles(map[string][]string{
			permission.RoleUser:    {permission.PermReportsView},
			permission.RoleManager: {permission.PermReportsView, permission.PermReportsCreate},
		})
	})

	user := engine.DerivePermissions(permission.RoleUser)
	if len(user) != 1 || user[0] != permission.PermReportsView {
		t.Fatalf("user permissions = %v", user)
	}
	if got := engine.DerivePermissions("ghost"); len(got) != 0 {
		t.Fatalf("unknown role derived %v, want empty", got)
	}
}
