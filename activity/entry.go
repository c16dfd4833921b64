package activity

import (
	"strings"
	"time"
)

// Action codes recorded by the engine's own flows. Hosts may record any
// namespaced code of their own alongside these.
const (
	ActionUserCreate            = "user.create"
	ActionUserPermissionsUpdate = "user.permissions.update"
	ActionUserStatusUpdate      = "user.status.update"
	ActionUserPasswordChange    = "user.password.change"
	ActionUserPasswordReset     = "user.password.reset"
	ActionAuthLogin             = "auth.login"
	ActionAuthLogout            = "auth.logout"
)

// Entry is one immutable activity record. Action and UserID are mandatory;
// everything else is optional context. Timestamp and ID are assigned by the
// recorder at write time and any caller-supplied values are discarded, so
// entries can never be backdated.
type Entry struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	Action     string         `json:"action"`
	TargetID   string         `json:"targetId,omitempty"`
	TargetType string         `json:"targetType,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	UserAgent  string         `json:"userAgent,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// securityPrefixes classifies action codes into the security stream. Prefix
// match, so "auth.login.failed" classifies the same as "auth.login".
var securityPrefixes = []string{
	"user.password.",
	"user.permissions.",
	"user.status.",
	"auth.login",
	"auth.logout",
}

// IsSecurityAction reports whether the action code is security-sensitive and
// must additionally be appended to the security stream.
func IsSecurityAction(action string) bool {
	for _, prefix := range securityPrefixes {
		if strings.HasPrefix(action, prefix) {
			return true
		}
	}
	return false
}
