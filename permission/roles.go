package permission

import (
	"errors"
	"sort"
)

// Role names form a fixed enumeration. RoleAdmin is never declared by callers;
// its permission set is always computed as the union of the catalog.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// RoleSet is the validated role→permission table. It is built once from an
// explicit declaration and is immutable afterwards.
//
// RoleSet instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type RoleSet struct {
	catalog *Catalog
	roles   map[string][]string
}

// NewRoleSet validates the declared role table against the catalog and builds
// the [RoleSet]. Rules enforced here:
//
//   - every declared role maps to a non-empty subset of the catalog;
//   - the admin role must not be declared — it is derived as the catalog union;
//   - when both are declared, the manager set must contain the user set.
func NewRoleSet(catalog *Catalog, declared map[string][]string) (*RoleSet, error) {
	if catalog == nil {
		return nil, errors.New("catalog required")
	}
	if len(declared) == 0 {
		return nil, errors.New("role table empty")
	}

	if _, exists := declared[RoleAdmin]; exists {
		return nil, errors.New("admin role must not be declared; it is derived from the catalog")
	}

	roles := make(map[string][]string, len(declared)+1)

	for role, tokens := range declared {
		if role == "" {
			return nil, errors.New("role name empty")
		}
		if len(tokens) == 0 {
			return nil, errors.New("role has no permissions: " + role)
		}

		seen := make(map[string]struct{}, len(tokens))
		set := make([]string, 0, len(tokens))
		for _, token := range tokens {
			if !catalog.Contains(token) {
				return nil, errors.New("role " + role + " references unknown permission: " + token)
			}
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			set = append(set, token)
		}
		sort.Strings(set)
		roles[role] = set
	}

	if err := requireSuperset(roles, RoleManager, RoleUser); err != nil {
		return nil, err
	}

	roles[RoleAdmin] = catalog.Tokens()

	return &RoleSet{catalog: catalog, roles: roles}, nil
}

func requireSuperset(roles map[string][]string, wide, narrow string) error {
	wideSet, okWide := roles[wide]
	narrowSet, okNarrow := roles[narrow]
	if !okWide || !okNarrow {
		return nil
	}

	members := make(map[string]struct{}, len(wideSet))
	for _, token := range wideSet {
		members[token] = struct{}{}
	}
	for _, token := range narrowSet {
		if _, ok := members[token]; !ok {
			return errors.New("role " + wide + " must include every " + narrow + " permission; missing " + token)
		}
	}
	return nil
}

// Derive returns the materialized permission set for a role as a fresh slice.
// Derivation is total: an unrecognized role yields an empty set, never an error.
func (rs *RoleSet) Derive(role string) []string {
	tokens, ok := rs.roles[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

// Roles returns the declared role names (including the derived admin), sorted.
func (rs *RoleSet) Roles() []string {
	out := make([]string, 0, len(rs.roles))
	for role := range rs.roles {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

// Catalog returns the catalog this role set was validated against.
func (rs *RoleSet) Catalog() *Catalog {
	return rs.catalog
}

// DefaultRoles returns the built-in QHSE role declaration: the baseline user
// role and the manager role extending it. Admin is derived, never listed here.
func DefaultRoles() map[string][]string {
	user := []string{
		PermDocumentView,
		PermTrainingView,
		PermReportsView,
		PermShieldUse,
	}

	manager := append([]string{
		PermDocumentCreate,
		PermDocumentEdit,
		PermTrainingManage,
		PermTrainingAssign,
		PermReportsCreate,
	}, user...)

	return map[string][]string{
		RoleUser:    user,
		RoleManager: manager,
	}
}
