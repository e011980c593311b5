package service

import (
	"context"
	"testing"

	"taskflow/internal/logger"
	userModel "taskflow/internal/user/model"
	appErrors "taskflow/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	zap.ReplaceGlobals(logger.Logger)
	m.Run()
}

type fakeAdminUserRepo struct {
	users map[uuid.UUID]*userModel.User
}

func newFakeAdminUserRepo(users ...*userModel.User) *fakeAdminUserRepo {
	repo := &fakeAdminUserRepo{users: make(map[uuid.UUID]*userModel.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeAdminUserRepo) ListWithTaskCounts(ctx context.Context) ([]*userModel.AdminUserResponse, error) {
	var out []*userModel.AdminUserResponse
	for _, user := range r.users {
		out = append(out, &userModel.AdminUserResponse{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		})
	}
	return out, nil
}

func (r *fakeAdminUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*userModel.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeAdminUserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, ok := r.users[userID]; !ok {
		return appErrors.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeAdminUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeTaskCounter struct {
	total     int64
	completed int64
}

func (c *fakeTaskCounter) Count(ctx context.Context) (int64, error)          { return c.total, nil }
func (c *fakeTaskCounter) CountCompleted(ctx context.Context) (int64, error) { return c.completed, nil }

func TestDeleteUser_SelfDeletionForbidden(t *testing.T) {
	admin := &userModel.User{ID: uuid.New(), Email: "root@x.com", Role: userModel.RoleAdmin}
	repo := newFakeAdminUserRepo(admin)
	svc := NewService(repo, &fakeTaskCounter{})

	err := svc.DeleteUser(context.Background(), admin, admin.ID)
	assert.ErrorIs(t, err, appErrors.ErrSelfDeletion)

	// Nothing was deleted.
	_, err = repo.GetByID(context.Background(), admin.ID)
	assert.NoError(t, err)
}

func TestDeleteUser_NotFound(t *testing.T) {
	admin := &userModel.User{ID: uuid.New(), Role: userModel.RoleAdmin}
	svc := NewService(newFakeAdminUserRepo(admin), &fakeTaskCounter{})

	err := svc.DeleteUser(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestDeleteUser_Success(t *testing.T) {
	admin := &userModel.User{ID: uuid.New(), Role: userModel.RoleAdmin}
	victim := &userModel.User{ID: uuid.New(), Role: userModel.RoleUser}
	repo := newFakeAdminUserRepo(admin, victim)
	svc := NewService(repo, &fakeTaskCounter{})

	err := svc.DeleteUser(context.Background(), admin, victim.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), victim.ID)
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestGetStats_ZeroTasks(t *testing.T) {
	svc := NewService(newFakeAdminUserRepo(), &fakeTaskCounter{total: 0, completed: 0})

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalTasks)
	assert.Equal(t, int64(0), stats.PendingTasks)
	assert.Equal(t, 0, stats.CompletionRate)
}

func TestGetStats_Rounding(t *testing.T) {
	svc := NewService(newFakeAdminUserRepo(), &fakeTaskCounter{total: 3, completed: 2})

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalTasks)
	assert.Equal(t, int64(2), stats.CompletedTasks)
	assert.Equal(t, int64(1), stats.PendingTasks)
	assert.Equal(t, 67, stats.CompletionRate)
}

func TestListUsers(t *testing.T) {
	a := &userModel.User{ID: uuid.New(), Email: "a@x.com", Role: userModel.RoleUser}
	b := &userModel.User{ID: uuid.New(), Email: "b@x.com", Role: userModel.RoleAdmin}
	svc := NewService(newFakeAdminUserRepo(a, b), &fakeTaskCounter{})

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
