package shieldcore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shieldhq/shieldcore/activity"
	"github.com/shieldhq/shieldcore/kv"
	"github.com/shieldhq/shieldcore/permission"
)

const userKeyPrefix = "user:"

func userKey(id string) string {
	return userKeyPrefix + id
}

// GetUser loads one user record by ID.
func (e *Engine) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	data, err := e.store.Get(ctx, userKey(id))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var user UserRecord
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserCorrupt, err)
	}
	return &user, nil
}

// CreateUser creates an account with permissions materialized from the role
// expansion plus any ad-hoc extra grants. Requires users.manage; records a
// user.create activity entry on success.
func (e *Engine) CreateUser(ctx context.Context, actor *Principal, input CreateUserInput) (*UserRecord, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.Check(ctx, actor, permission.PermUsersManage); err != nil {
		return nil, err
	}

	if input.Username == "" {
		return nil, errors.New("username required")
	}

	perms := e.roles.Derive(input.Role)
	if len(perms) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, input.Role)
	}

	tier := input.Tier
	if tier == "" {
		tier = TierMiles
	}
	if !ValidTier(tier) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTier, tier)
	}

	for _, token := range input.ExtraPermissions {
		if !e.catalog.Contains(token) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, token)
		}
	}
	perms = mergePermissions(perms, input.ExtraPermissions)

	now := time.Now().UTC()
	user := &UserRecord{
		ID:          uuid.NewString(),
		Username:    input.Username,
		Role:        input.Role,
		Permissions: perms,
		Status:      StatusActive,
		Tier:        tier,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := e.store.Get(ctx, userKey(user.ID)); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, err
	}

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}

	e.metricInc(MetricUserCreated)
	e.RecordActivity(ctx, ActivityEntry{
		UserID:     actor.UserID,
		Action:     activity.ActionUserCreate,
		TargetID:   user.ID,
		TargetType: "user",
		Details: map[string]any{
			"username": user.Username,
			"role":     user.Role,
			"tier":     string(user.Tier),
		},
	})

	return user, nil
}

// UpdateUserPermissions replaces the target's materialized permission list.
// Permissions is an independent field from Role: this is how deployments
// grant ad-hoc tokens to an individual beyond their role. Requires
// users.manage; records a user.permissions.update entry, which the recorder
// classifies into the security stream.
func (e *Engine) UpdateUserPermissions(ctx context.Context, actor *Principal, targetID string, perms []string) (*UserRecord, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.Check(ctx, actor, permission.PermUsersManage); err != nil {
		return nil, err
	}

	for _, token := range perms {
		if !e.catalog.Contains(token) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, token)
		}
	}

	user, err := e.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	previous := user.Permissions
	user.Permissions = mergePermissions(nil, perms)
	user.UpdatedAt = time.Now().UTC()

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}

	e.metricInc(MetricPermissionsUpdated)
	e.RecordActivity(ctx, ActivityEntry{
		UserID:     actor.UserID,
		Action:     activity.ActionUserPermissionsUpdate,
		TargetID:   user.ID,
		TargetType: "user",
		Details: map[string]any{
			"previous": previous,
			"updated":  user.Permissions,
		},
	})

	return user, nil
}

// UpdateUserStatus transitions the target account's lifecycle state.
// Requires users.manage; records a user.status.update entry, which the
// recorder classifies into the security stream.
func (e *Engine) UpdateUserStatus(ctx context.Context, actor *Principal, targetID string, status AccountStatus) (*UserRecord, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if err := e.Check(ctx, actor, permission.PermUsersManage); err != nil {
		return nil, err
	}

	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}

	user, err := e.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	previous := user.Status
	user.Status = status
	user.UpdatedAt = time.Now().UTC()

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}

	e.metricInc(MetricStatusChanged)
	e.RecordActivity(ctx, ActivityEntry{
		UserID:     actor.UserID,
		Action:     activity.ActionUserStatusUpdate,
		TargetID:   user.ID,
		TargetType: "user",
		Details: map[string]any{
			"previous": string(previous),
			"updated":  string(status),
		},
	})

	return user, nil
}

func (e *Engine) saveUser(ctx context.Context, user *UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return e.store.Set(ctx, userKey(user.ID), data)
}

func mergePermissions(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, token := range list {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			out = append(out, token)
		}
	}
	return out
}
