package controller

import (
	"errors"
	"net/http"

	"bench_survey_backend/internal/service"
	"bench_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type RegisterRequest struct {
	Username        string  `json:"username" binding:"required"`
	Password        string  `json:"password" binding:"required,min=8"`
	ConfirmPassword string  `json:"confirm_password" binding:"required"`
	Email           *string `json:"email" binding:"omitempty,email"`
}

// Register godoc
// @Summary Register a new admin account
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "registration payload"
// @Router /api/v1/admin/signup [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin, err := c.AuthService.Register(req.Username, req.Password, req.ConfirmPassword, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRegistrationClosed):
			util.Error(ctx, http.StatusForbidden, err.Error())
		case errors.Is(err, util.ErrPasswordsDontMatch):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNameTaken), errors.Is(err, util.ErrEmailTaken):
			util.Error(ctx, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": admin.ID})
}

type LoginRequest struct {
	// Login accepts both username and email.
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Sign in with username or email
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Router /api/v1/admin/signin [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAccountNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrWrongPassword):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"token": token})
}
