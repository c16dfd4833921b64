package permission

import (
	"errors"
	"testing"
)

func managerPrincipal() *Principal {
	return &Principal{
		UserID: "user-7",
		Role:   RoleManager,
		Permissions: []string{
			PermDocumentView,
			PermDocumentEdit,
			PermTrainingManage,
		},
	}
}

func TestHasExactMatch(t *testing.T) {
	p := managerPrincipal()

	cases := []struct {
		name string
		perm string
		want bool
	}{
		{"held token", PermDocumentEdit, true},
		{"unheld token", PermUsersManage, false},
		{"no partial namespace match", "document", false},
		{"no wildcard expansion", "document.*", false},
		{"case sensitive", "Document.Edit", false},
		{"empty token", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Has(p, tc.perm); got != tc.want {
				t.Fatalf("Has(%q) = %v, want %v", tc.perm, got, tc.want)
			}
		})
	}
}

func TestHasNilPrincipal(t *testing.T) {
	if Has(nil, PermDocumentView) {
		t.Fatal("nil principal must hold nothing")
	}
	if Has(&Principal{}, PermDocumentView) {
		t.Fatal("principal without permissions must hold nothing")
	}
}

func TestHasAnyEmptyListDenies(t *testing.T) {
	p := managerPrincipal()

	if HasAny(p, nil) {
		t.Fatal("HasAny with nil list must be false")
	}
	if HasAny(p, []string{}) {
		t.Fatal("HasAny with empty list must be false")
	}
}

func TestHasAllEmptyListPasses(t *testing.T) {
	if !HasAll(managerPrincipal(), nil) {
		t.Fatal("HasAll with nil list must be true")
	}
	if !HasAll(nil, []string{}) {
		t.Fatal("HasAll with empty list must be true even for nil principal")
	}
}

func TestHasAnyHasAllCombinators(t *testing.T) {
	p := managerPrincipal()

	if !HasAll(p, []string{PermDocumentView, PermDocumentEdit}) {
		t.Fatal("HasAll over held tokens must be true")
	}
	if HasAll(p, []string{PermDocumentView, PermUsersManage}) {
		t.Fatal("HasAll with one unheld token must be false")
	}
	if !HasAny(p, []string{PermUsersManage, PermDocumentEdit}) {
		t.Fatal("HasAny with one held token must be true")
	}
	if HasAny(p, []string{PermUsersManage, PermShieldAdmin}) {
		t.Fatal("HasAny over unheld tokens must be false")
	}
}

func TestCheckMirrorsHas(t *testing.T) {
	p := managerPrincipal()

	if err := Check(p, PermDocumentEdit); err != nil {
		t.Fatalf("Check on held token returned %v", err)
	}

	err := Check(p, PermUsersManage)
	if err == nil {
		t.Fatal("Check on unheld token must fail")
	}
	if !errors.Is(err, ErrMissingPermission) {
		t.Fatalf("Check error %v does not unwrap to ErrMissingPermission", err)
	}

	var authzErr *AuthorizationError
	if !errors.As(err, &authzErr) {
		t.Fatalf("Check error %T is not *AuthorizationError", err)
	}
	if authzErr.Permission != PermUsersManage {
		t.Fatalf("AuthorizationError carries %q, want %q", authzErr.Permission, PermUsersManage)
	}
}

func TestCheckNilPrincipal(t *testing.T) {
	err := Check(nil, PermShieldUse)
	if !errors.Is(err, ErrMissingPermission) {
		t.Fatalf("Check(nil) = %v, want ErrMissingPermission", err)
	}
}
