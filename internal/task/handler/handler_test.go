package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	taskModel "taskflow/internal/task/model"
	taskService "taskflow/internal/task/service"
	userHandler "taskflow/internal/user/handler"
	userModel "taskflow/internal/user/model"
	userService "taskflow/internal/user/service"
	appErrors "taskflow/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	zap.ReplaceGlobals(logger.Logger)
	gin.SetMode(gin.TestMode)
	m.Run()
}

// In-memory stand-ins for the GORM repositories, shared by the auth and
// task flows so a registered user can immediately own tasks.

type memUserRepo struct {
	users map[uuid.UUID]*userModel.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*userModel.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *userModel.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return appErrors.ErrEmailExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userModel.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, appErrors.ErrUserNotFound
}

func (r *memUserRepo) GetByPhone(ctx context.Context, phone string) (*userModel.User, error) {
	for _, user := range r.users {
		if user.PhoneNumber != nil && *user.PhoneNumber == phone {
			return user, nil
		}
	}
	return nil, appErrors.ErrUserNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*userModel.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, appErrors.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) SetResetCode(ctx context.Context, userID uuid.UUID, code string, expires time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}
	user.ResetCode = &code
	user.ResetCodeExpires = &expires
	return nil
}

func (r *memUserRepo) GetByActiveResetCode(ctx context.Context, code string) (*userModel.User, error) {
	for _, user := range r.users {
		if user.ResetCode != nil && *user.ResetCode == code &&
			user.ResetCodeExpires != nil && user.ResetCodeExpires.After(time.Now()) {
			return user, nil
		}
	}
	return nil, appErrors.ErrResetCodeInvalid
}

func (r *memUserRepo) ConsumeResetCode(ctx context.Context, userID uuid.UUID, code, passwordHash string) error {
	user, ok := r.users[userID]
	if !ok || user.ResetCode == nil || *user.ResetCode != code {
		return appErrors.ErrResetCodeInvalid
	}
	user.PasswordHashed = passwordHash
	user.ResetCode = nil
	user.ResetCodeExpires = nil
	return nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return appErrors.ErrUserNotFound
	}
	user.PasswordHashed = passwordHash
	user.ResetCode = nil
	user.ResetCodeExpires = nil
	return nil
}

type memTaskRepo struct {
	tasks map[uuid.UUID]*taskModel.Task
	seq   int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*taskModel.Task)}
}

func (r *memTaskRepo) Create(ctx context.Context, task *taskModel.Task) error {
	task.ID = uuid.New()
	r.seq++
	task.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Second)
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = task
	return nil
}

func (r *memTaskRepo) list(filter func(*taskModel.Task) bool) []*taskModel.Task {
	var out []*taskModel.Task
	for _, task := range r.tasks {
		if filter(task) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memTaskRepo) ListAll(ctx context.Context) ([]*taskModel.Task, error) {
	return r.list(func(*taskModel.Task) bool { return true }), nil
}

func (r *memTaskRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*taskModel.Task, error) {
	return r.list(func(t *taskModel.Task) bool { return t.UserID == ownerID }), nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, taskID uuid.UUID) (*taskModel.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, appErrors.ErrTaskNotFound
	}
	return task, nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *taskModel.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return appErrors.ErrTaskNotFound
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, taskID uuid.UUID) error {
	if _, ok := r.tasks[taskID]; !ok {
		return appErrors.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) SendPasswordResetEmail(ctx context.Context, to, resetLink, resetCode string) error {
	return nil
}
func (noopNotifier) SendPasswordResetSMS(ctx context.Context, phoneNumber, resetCode string) error {
	return nil
}

func newTestRouter() *gin.Engine {
	cfg := &config.Config{
		Server:   config.ServerConfig{Environment: "development"},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}

	userRepo := newMemUserRepo()
	taskRepo := newMemTaskRepo()

	authH := userHandler.NewHandler(userService.NewService(userRepo, noopNotifier{}, cfg))
	taskH := NewHandler(taskService.NewService(taskRepo))

	router := gin.New()
	root := router.Group("")
	authH.RegisterRoutes(root)

	protected := root.Group("")
	protected.Use(middleware.AuthMiddleware(cfg, userRepo))
	authH.RegisterProfileRoutes(protected)
	taskH.RegisterRoutes(protected)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func registerAndLogin(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w, _ := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

// Full lifecycle: register, login, create, list, complete, delete.
func TestTaskLifecycle(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "a@x.com", "secret1")

	w, resp := doJSON(t, router, http.MethodPost, "/tasks", token, gin.H{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := resp["data"].(map[string]interface{})
	taskID := created["id"].(string)
	assert.Equal(t, "Buy milk", created["title"])
	assert.Equal(t, false, created["completed"])

	w, resp = doJSON(t, router, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := resp["data"].([]interface{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].(map[string]interface{})["title"])

	w, _ = doJSON(t, router, http.MethodPut, "/tasks/"+taskID, token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks = resp["data"].([]interface{})
	require.Len(t, tasks, 1)
	assert.Equal(t, true, tasks[0].(map[string]interface{})["completed"])
	assert.Equal(t, "Buy milk", tasks[0].(map[string]interface{})["title"])

	w, _ = doJSON(t, router, http.MethodDelete, "/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])
}

func TestTaskOwnershipAcrossUsers(t *testing.T) {
	router := newTestRouter()
	tokenA := registerAndLogin(t, router, "a@x.com", "secret1")
	tokenB := registerAndLogin(t, router, "b@x.com", "secret2")

	w, resp := doJSON(t, router, http.MethodPost, "/tasks", tokenA, gin.H{"title": "private"})
	require.Equal(t, http.StatusCreated, w.Code)
	taskID := resp["data"].(map[string]interface{})["id"].(string)

	w, _ = doJSON(t, router, http.MethodGet, "/tasks/"+taskID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/tasks/"+taskID, tokenB, gin.H{"completed": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, http.MethodDelete, "/tasks/"+taskID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// B's listing does not leak A's task.
	w, resp = doJSON(t, router, http.MethodGet, "/tasks", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["data"])
}

func TestTaskEndpointsRequireAuth(t *testing.T) {
	router := newTestRouter()

	w, _ := doJSON(t, router, http.MethodGet, "/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/tasks", "", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTask_ValidationOverHTTP(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "a@x.com", "secret1")

	w, _ := doJSON(t, router, http.MethodPost, "/tasks", token, gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTask_UnknownID(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "a@x.com", "secret1")

	w, _ := doJSON(t, router, http.MethodGet, "/tasks/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Non-uuid ids are simply unknown resources.
	w, _ = doJSON(t, router, http.MethodGet, "/tasks/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileReflectsCaller(t *testing.T) {
	router := newTestRouter()
	token := registerAndLogin(t, router, "a@x.com", "secret1")

	w, resp := doJSON(t, router, http.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, "user", data["role"])
	_, hasHash := data["password_hashed"]
	assert.False(t, hasHash, fmt.Sprintf("profile leaked fields: %v", data))
}
