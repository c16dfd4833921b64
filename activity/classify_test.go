package activity

import "testing"

func TestIsSecurityAction(t *testing.T) {
	cases := []struct {
		action string
		want   bool
	}{
		{ActionUserPasswordReset, true},
		{ActionUserPasswordChange, true},
		{ActionUserPermissionsUpdate, true},
		{ActionUserStatusUpdate, true},
		{ActionAuthLogin, true},
		{"auth.login.failed", true},
		{ActionAuthLogout, true},
		{ActionUserCreate, false},
		{"document.view", false},
		{"user.profile.update", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			if got := IsSecurityAction(tc.action); got != tc.want {
				t.Fatalf("IsSecurityAction(%q) = %v, want %v", tc.action, got, tc.want)
			}
		})
	}
}
