package handler

import (
	"errors"
	"net/http"

	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// ListUsers обрабатывает GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetAdminStatus обрабатывает GET /users/:email
func (h *UserHandler) GetAdminStatus(c *gin.Context) {
	admin, err := h.userService.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, entity.AdminStatusResponse{Admin: admin})
}

// CreateUser обрабатывает POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var user entity.User
	// null в теле дает nil-документ без ошибки
	if err := c.ShouldBindJSON(&user); err != nil || user == nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.userService.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpsertUser обрабатывает PUT /users
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var user entity.User
	if err := c.ShouldBindJSON(&user); err != nil || user == nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.userService.UpsertUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to save user")
		return
	}

	c.JSON(http.StatusOK, result)
}

// PromoteAdmin обрабатывает PUT /users/admin
func (h *UserHandler) PromoteAdmin(c *gin.Context) {
	identity := IdentityFromContext(c)
	// Анонимный запрос получает 401 до разбора тела
	if _, ok := identity.VerifiedEmail(); !ok {
		respondMessage(c, http.StatusUnauthorized, msgPromoteUnauth)
		return
	}

	var req entity.PromoteAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	result, err := h.userService.PromoteToAdmin(c.Request.Context(), identity, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			respondMessage(c, http.StatusUnauthorized, msgPromoteUnauth)
			return
		}
		respondError(c, err, "Failed to promote user")
		return
	}

	c.JSON(http.StatusOK, result)
}
