package acl

import (
	"context"
	"fmt"

	"github.com/secugard/secugard/internal/common/cnst"
)

// Perm builds a permission code in the "<app>.<action>_<model>" form,
// e.g. Perm("confirm", "zone") -> "core.confirm_zone".
func Perm(action, model string) string {
	return fmt.Sprintf("%s.%s_%s", cnst.AppLabel, action, model)
}

// Checker decides whether an actor holds a permission. It is evaluated
// before any domain state is read.
type Checker interface {
	HasPermission(ctx context.Context, userID uint, role string, perm string) (bool, error)
}

// GrantStore looks up persisted per-user permission grants.
type GrantStore interface {
	HasGrant(ctx context.Context, userID uint, code string) (bool, error)
}

// StoreChecker grants administrators everything and resolves other roles
// against persisted grant rows.
type StoreChecker struct {
	grants GrantStore
}

// NewStoreChecker creates a checker backed by a grant store.
func NewStoreChecker(grants GrantStore) *StoreChecker {
	return &StoreChecker{grants: grants}
}

func (c *StoreChecker) HasPermission(ctx context.Context, userID uint, role string, perm string) (bool, error) {
	if role == "admin" {
		return true, nil
	}
	return c.grants.HasGrant(ctx, userID, perm)
}
