package shieldcore

import (
	"time"

	"github.com/shieldhq/shieldcore/activity"
	"github.com/shieldhq/shieldcore/permission"
)

// Principal is the authenticated actor authorization decisions are evaluated
// against. See [permission.Principal] for the materialized-permissions
// invariant.
type Principal = permission.Principal

// ActivityEntry is one immutable activity record.
type ActivityEntry = activity.Entry

// ActivityFilter narrows activity and security log reads.
type ActivityFilter = activity.Filter

// SubscriptionTier is the billing/feature tier of an account. Tiers are an
// ordered ladder used only for feature gating; they are a separate axis from
// roles and permissions and never grant or imply authorization.
type SubscriptionTier string

const (
	// TierMiles is an exported constant or variable used by the authorization engine.
	TierMiles SubscriptionTier = "miles"
	// TierCenturion is an exported constant or variable used by the authorization engine.
	TierCenturion SubscriptionTier = "centurion"
	// TierTribune is an exported constant or variable used by the authorization engine.
	TierTribune SubscriptionTier = "tribune"
	// TierConsul is an exported constant or variable used by the authorization engine.
	TierConsul SubscriptionTier = "consul"
	// TierEmperor is an exported constant or variable used by the authorization engine.
	TierEmperor SubscriptionTier = "emperor"
)

var tierRank = map[SubscriptionTier]int{
	TierMiles:     1,
	TierCenturion: 2,
	TierTribune:   3,
	TierConsul:    4,
	TierEmperor:   5,
}

// ValidTier reports whether the tier is one of the fixed ladder values.
func ValidTier(tier SubscriptionTier) bool {
	_, ok := tierRank[tier]
	return ok
}

// TierAtLeast reports whether tier sits at or above min on the ladder.
// Unknown tiers rank below every valid tier.
func TierAtLeast(tier, min SubscriptionTier) bool {
	have, ok := tierRank[tier]
	if !ok {
		return false
	}
	want, ok := tierRank[min]
	if !ok {
		return false
	}
	return have >= want
}

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	// StatusActive is an exported constant or variable used by the authorization engine.
	StatusActive AccountStatus = "active"
	// StatusInactive is an exported constant or variable used by the authorization engine.
	StatusInactive AccountStatus = "inactive"
	// StatusPending is an exported constant or variable used by the authorization engine.
	StatusPending AccountStatus = "pending"
)

var validStatuses = map[AccountStatus]struct{}{
	StatusActive:   {},
	StatusInactive: {},
	StatusPending:  {},
}

// ValidStatus reports whether the status is one of the enumerated states.
func ValidStatus(status AccountStatus) bool {
	_, ok := validStatuses[status]
	return ok
}

// UserRecord is the stored account record. Permissions is the materialized
// grant list: it starts as the role expansion and may be edited independently
// of Role afterwards (ad-hoc grants), which is why decisions never re-derive
// from Role.
type UserRecord struct {
	ID          string           `json:"id"`
	Username    string           `json:"username"`
	Role        string           `json:"role"`
	Permissions []string         `json:"permissions"`
	Status      AccountStatus    `json:"status"`
	Tier        SubscriptionTier `json:"tier"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Principal materializes the record into the shape authorization decisions
// consume.
func (u *UserRecord) Principal() *Principal {
	if u == nil {
		return nil
	}
	perms := make([]string, len(u.Permissions))
	copy(perms, u.Permissions)
	return &Principal{
		UserID:      u.ID,
		Role:        u.Role,
		Tier:        string(u.Tier),
		Permissions: perms,
	}
}

// CreateUserInput is the input for [Engine.CreateUser]. Permissions are
// materialized from Role at creation time; ExtraPermissions adds ad-hoc
// grants beyond the role expansion.
type CreateUserInput struct {
	Username         string
	Role             string
	Tier             SubscriptionTier
	ExtraPermissions []string
}
