package test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	shieldcore "github.com/shieldhq/shieldcore"
	"github.com/shieldhq/shieldcore/activity"
	"github.com/shieldhq/shieldcore/permission"
)

func newEngine(t *testing.T) *shieldcore.Engine {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	engine, err := shieldcore.New().WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

// TestAdministrationRoundTrip walks the whole public surface once: an admin
// creates a user, edits their grants and status, and every step is visible
// through the activity and security streams.
func TestAdministrationRoundTrip(t *testing.T) {
	engine := newEngine(t)
	ctx := context.Background()

	admin := &shieldcore.Principal{
		UserID:      "admin-1",
		Role:        permission.RoleAdmin,
		Permissions: engine.DerivePermissions(permission.RoleAdmin),
	}

	created, err := engine.CreateUser(ctx, admin, shieldcore.CreateUserInput{
		Username: "inspector",
		Role:     permission.RoleManager,
		Tier:     shieldcore.TierTribune,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	principal := created.Principal()
	if !engine.Can(principal, permission.PermDocumentEdit) {
		t.Fatal("manager should hold document.edit")
	}
	if engine.Can(principal, permission.PermUsersManage) {
		t.Fatal("manager must not hold users.manage")
	}
	if !engine.TierAtLeast(principal, shieldcore.TierCenturion) {
		t.Fatal("tribune tier should clear a centurion gate")
	}

	// A created user cannot self-escalate.
	if _, err := engine.CreateUser(ctx, principal, shieldcore.CreateUserInput{
		Username: "rogue",
		Role:     permission.RoleAdmin,
	}); !errors.Is(err, permission.ErrMissingPermission) {
		t.Fatalf("self-escalation error = %v", err)
	}

	if _, err := engine.UpdateUserPermissions(ctx, admin, created.ID, []string{
		permission.PermDocumentView,
	}); err != nil {
		t.Fatalf("UpdateUserPermissions failed: %v", err)
	}
	if _, err := engine.UpdateUserStatus(ctx, admin, created.ID, shieldcore.StatusInactive); err != nil {
		t.Fatalf("UpdateUserStatus failed: %v", err)
	}

	// Decisions read the stored grant list, not the role.
	reloaded, err := engine.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if engine.Can(reloaded.Principal(), permission.PermDocumentEdit) {
		t.Fatal("revoked grant still honored")
	}
	if reloaded.Role != permission.RoleManager {
		t.Fatal("role changed by grant edit")
	}

	general, err := engine.ActivityLogs(ctx, shieldcore.ActivityFilter{UserID: admin.UserID})
	if err != nil {
		t.Fatalf("ActivityLogs failed: %v", err)
	}
	if len(general) != 3 {
		t.Fatalf("general stream has %d entries, want 3", len(general))
	}
	// Newest first.
	if general[0].Action != activity.ActionUserStatusUpdate {
		t.Fatalf("newest action = %q", general[0].Action)
	}

	secure, err := engine.SecurityLogs(ctx, shieldcore.ActivityFilter{UserID: admin.UserID})
	if err != nil {
		t.Fatalf("SecurityLogs failed: %v", err)
	}
	if len(secure) != 2 {
		t.Fatalf("security stream has %d entries, want 2", len(secure))
	}
	for _, entry := range secure {
		if !activity.IsSecurityAction(entry.Action) {
			t.Fatalf("non-security action %q on security stream", entry.Action)
		}
	}

	snapshot := engine.MetricsSnapshot()
	if snapshot.Counters[shieldcore.MetricUserCreated] != 1 {
		t.Fatalf("user created counter = %d", snapshot.Counters[shieldcore.MetricUserCreated])
	}
	if snapshot.Counters[shieldcore.MetricActivityRecorded] != 3 {
		t.Fatalf("activity counter = %d", snapshot.Counters[shieldcore.MetricActivityRecorded])
	}
	if snapshot.Counters[shieldcore.MetricSecurityRecorded] != 2 {
		t.Fatalf("security counter = %d", snapshot.Counters[shieldcore.MetricSecurityRecorded])
	}
}

// TestDecisionsIgnoreRoleAndTier pins the materialized-permissions rule: the
// evaluator never expands a role name or consults the tier.
func TestDecisionsIgnoreRoleAndTier(t *testing.T) {
	engine := newEngine(t)

	impostor := &shieldcore.Principal{
		UserID: "u1",
		Role:   permission.RoleAdmin,
		Tier:   string(shieldcore.TierEmperor),
	}
	if engine.Can(impostor, permission.PermDocumentView) {
		t.Fatal("role name alone granted access")
	}

	granted := &shieldcore.Principal{
		UserID:      "u2",
		Role:        "not-even-a-role",
		Permissions: []string{permission.PermDocumentView},
	}
	if !engine.Can(granted, permission.PermDocumentView) {
		t.Fatal("materialized grant denied")
	}
}
