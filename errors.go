package shieldcore

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUserNotFound is returned when the target user record does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating a user whose ID is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUnknownRole is returned when a user operation names a role outside
	// the role table.
	ErrUnknownRole = errors.New("unknown role")
	// ErrUnknownPermission is returned when a grant names a token outside the
	// catalog.
	ErrUnknownPermission = errors.New("unknown permission")
	// ErrUnknownTier is returned when a user operation names a subscription
	// tier outside the fixed tier ladder.
	ErrUnknownTier = errors.New("unknown subscription tier")
	// ErrUnknownStatus is returned when a status transition names a state
	// outside the account lifecycle enumeration.
	ErrUnknownStatus = errors.New("unknown account status")
	// ErrUserCorrupt is returned when a stored user record fails shape
	// validation on read.
	ErrUserCorrupt = errors.New("user record corrupt")
)
