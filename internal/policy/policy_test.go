package policy

import (
	"testing"

	userModel "taskflow/internal/user/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	ownerID := uuid.New()

	owner := &userModel.User{ID: ownerID, Role: userModel.RoleUser}
	stranger := &userModel.User{ID: uuid.New(), Role: userModel.RoleUser}
	admin := &userModel.User{ID: uuid.New(), Role: userModel.RoleAdmin}

	assert.True(t, CanAccess(owner, ownerID))
	assert.False(t, CanAccess(stranger, ownerID))
	assert.True(t, CanAccess(admin, ownerID))
	assert.False(t, CanAccess(nil, ownerID))
}
