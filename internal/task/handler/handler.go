package handler

import (
	"errors"
	"net/http"

	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	"taskflow/internal/task/model"
	"taskflow/internal/task/service"
	userModel "taskflow/internal/user/model"
	appErrors "taskflow/pkg/errors"
	"taskflow/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	service *service.TaskService
}

func NewHandler(service *service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// RegisterRoutes mounts the task CRUD endpoints; the group must already
// carry the auth middleware.
func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
	}
}

func (h *TaskHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	tasks, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, appErrors.ErrTaskNotFound.Error())
		return
	}

	task, err := h.service.Get(c.Request.Context(), caller, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	var request model.CreateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request.Title = utils.SanitizeString(request.Title)
	if request.Description != nil {
		sanitized := utils.SanitizeText(*request.Description)
		request.Description = &sanitized
	}

	task, err := h.service.Create(c.Request.Context(), caller, &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Task created", task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, appErrors.ErrTaskNotFound.Error())
		return
	}

	var request model.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if request.Title != nil {
		sanitized := utils.SanitizeString(*request.Title)
		request.Title = &sanitized
	}
	if request.Description != nil {
		sanitized := utils.SanitizeText(*request.Description)
		request.Description = &sanitized
	}

	task, err := h.service.Update(c.Request.Context(), caller, taskID, &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task updated", task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, appErrors.ErrTaskNotFound.Error())
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, taskID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Task deleted", nil)
}

func callerFromContext(c *gin.Context) (*userModel.User, bool) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}
	return caller, true
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrTaskNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, "Forbidden")
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
