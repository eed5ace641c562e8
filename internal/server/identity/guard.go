package identity

import (
	"context"

	"github.com/safedrive/safedrive/internal/common"
)

// RequireOwner fails with ErrorAccessDenied unless the bound identity owns
// the resource. Services still scope their queries by the acting user's ID;
// this check covers paths where a row was fetched before the owner is known.
func RequireOwner(ctx context.Context, resourceOwnerID string) error {
	user, err := Current(ctx)
	if err != nil {
		return err
	}
	if user.ID != resourceOwnerID {
		return common.ErrorAccessDenied
	}
	return nil
}

// RequireAdmin fails with ErrorAccessDenied unless the bound identity has
// the ADMIN role.
func RequireAdmin(ctx context.Context) error {
	user, err := Current(ctx)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return common.ErrorAccessDenied
	}
	return nil
}
