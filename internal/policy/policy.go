// Package policy holds the single authorization decision used by every
// owner-scoped flow, instead of per-handler role branching.
package policy

import (
	userModel "taskflow/internal/user/model"

	"github.com/google/uuid"
)

// CanAccess reports whether the caller may read or mutate a resource
// owned by ownerID: the owner always can, and so can any admin.
func CanAccess(caller *userModel.User, ownerID uuid.UUID) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || caller.ID == ownerID
}
