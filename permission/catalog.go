package permission

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Catalog maps permission group names to their member tokens and is the single
// source of truth for which tokens exist. Register all groups before calling
// [Catalog.Freeze]; a frozen catalog is immutable and safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	groups map[string][]string
	tokens map[string]struct{}
	frozen bool
}

// NewCatalog creates an empty permission [Catalog].
func NewCatalog() *Catalog {
	return &Catalog{
		groups: make(map[string][]string),
		tokens: make(map[string]struct{}),
	}
}

// RegisterGroup adds a named group of permission tokens. Tokens must be
// non-empty, contain a "." namespace separator, and be unique across the
// whole catalog. Must be called before [Catalog.Freeze].
func (c *Catalog) RegisterGroup(group string, tokens []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return errors.New("catalog frozen")
	}

	if group == "" {
		return errors.New("group name cannot be empty")
	}

	if _, exists := c.groups[group]; exists {
		return errors.New("group already registered: " + group)
	}

	if len(tokens) == 0 {
		return errors.New("group has no tokens: " + group)
	}

	incoming := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if token == "" {
			return errors.New("permission token cannot be empty")
		}
		if !strings.Contains(token, ".") {
			return errors.New("permission token missing namespace: " + token)
		}
		if _, exists := c.tokens[token]; exists {
			return errors.New("permission already registered: " + token)
		}
		if _, dup := incoming[token]; dup {
			return errors.New("permission duplicated in group: " + token)
		}
		incoming[token] = struct{}{}
	}

	group = strings.Clone(group)
	members := make([]string, len(tokens))
	copy(members, tokens)

	c.groups[group] = members
	for _, token := range members {
		c.tokens[token] = struct{}{}
	}

	return nil
}

// Freeze prevents further registrations. Must be called before the catalog
// is handed to a role table or evaluator.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Contains reports whether the token is registered.
func (c *Catalog) Contains(token string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tokens[token]
	return ok
}

// Tokens returns every registered token, sorted, as a fresh slice.
func (c *Catalog) Tokens() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.tokens))
	for token := range c.tokens {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// Group returns the tokens of one group, or false if the group is unknown.
func (c *Catalog) Group(name string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	members, ok := c.groups[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// Count returns the number of registered tokens.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tokens)
}

// Default QHSE permission tokens.
const (
	PermDocumentView   = "document.view"
	PermDocumentCreate = "document.create"
	PermDocumentEdit   = "document.edit"
	PermDocumentDelete = "document.delete"

	PermTrainingView   = "training.view"
	PermTrainingManage = "training.manage"
	PermTrainingCreate = "training.create"
	PermTrainingAssign = "training.assign"

	PermReportsView   = "reports.view"
	PermReportsCreate = "reports.create"
	PermReportsExport = "reports.export"

	PermUsersView   = "users.view"
	PermUsersManage = "users.manage"

	PermShieldUse   = "shield.use"
	PermShieldAdmin = "shield.admin"
)

// DefaultCatalog returns the built-in QHSE catalog, already frozen.
// Deployments with their own token set should build a [Catalog] directly.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	groups := []struct {
		name   string
		tokens []string
	}{
		{"documents", []string{PermDocumentView, PermDocumentCreate, PermDocumentEdit, PermDocumentDelete}},
		{"training", []string{PermTrainingView, PermTrainingManage, PermTrainingCreate, PermTrainingAssign}},
		{"reports", []string{PermReportsView, PermReportsCreate, PermReportsExport}},
		{"users", []string{PermUsersView, PermUsersManage}},
		{"shield", []string{PermShieldUse, PermShieldAdmin}},
	}

	for _, g := range groups {
		if err := c.RegisterGroup(g.name, g.tokens); err != nil {
			panic("permission: default catalog invalid: " + err.Error())
		}
	}

	c.Freeze()
	return c
}
