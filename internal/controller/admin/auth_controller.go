package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/middleware"
	"github.com/prepnest/lms-backend/internal/service"
)

type AuthController struct {
	adminService service.AdminService
}

func NewAuthController(adminService service.AdminService) *AuthController {
	return &AuthController{adminService: adminService}
}

// Register godoc
// @Summary (Admin) Register an administrator account
// @Tags Admin - Auth
// @Accept json
// @Produce json
// @Param admin body dto.AdminRegisterRequest true "Admin account data"
// @Success 201 {object} dto.AdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.AdminRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	admin, err := c.adminService.Register(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, admin)
}

// Login godoc
// @Summary (Admin) Log in and receive a bearer token
// @Tags Admin - Auth
// @Accept json
// @Produce json
// @Param credentials body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	token, err := c.adminService.Login(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, token)
}

// Profile godoc
// @Summary (Admin) Get the authenticated admin's profile
// @Tags Admin - Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /admin/me [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	admin, err := c.adminService.Profile(middleware.AdminID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, admin)
}

// respondError maps the service error taxonomy onto HTTP statuses.
func respondError(ctx *gin.Context, err error) {
	var locked *service.LockedError
	switch {
	case errors.As(err, &locked):
		ctx.JSON(http.StatusConflict, dto.LockedResponse{Message: locked.Reason, Locked: true, Result: locked.Result})
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrInvalidAuth):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid credentials"})
	case errors.Is(err, service.ErrNotAssigned):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You are not assigned to this subject."})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoLinkage):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Server error"})
	}
}
