package handler

import (
	"errors"
	"net/http"

	"taskflow/internal/admin/service"
	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	appErrors "taskflow/pkg/errors"
	"taskflow/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service *service.AdminService
}

func NewHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes mounts the admin endpoints; the group must already carry
// auth and admin-role middleware.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.DELETE("/users/:id", h.DeleteUser)
	router.GET("/stats", h.GetStats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.ListResponse(c, http.StatusOK, len(users), users)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, appErrors.ErrUserNotFound.Error())
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), caller, userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrSelfDeletion):
		utils.ErrorResponse(c, http.StatusBadRequest, "Cannot delete your own account")
	case errors.Is(err, appErrors.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
