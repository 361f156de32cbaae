package controller

import (
	"errors"

	"bench_survey_backend/internal/service"
	"bench_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AccountController struct {
	AuthService *service.AuthService
}

func NewAccountController(authService *service.AuthService) *AccountController {
	return &AccountController{AuthService: authService}
}

// GetSecret godoc
// @Summary Fetch the account's API secret
// @Produce json
// @Router /api/v1/admin/account/secret [get]
func (c *AccountController) GetSecret(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	secret, err := c.AuthService.GetSecret(claims.AdminID)
	if err != nil {
		if errors.Is(err, util.ErrAccountNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"secret": secret})
}

// RotateSecret godoc
// @Summary Replace the account's API secret with a fresh one
// @Produce json
// @Router /api/v1/admin/account/secret [post]
func (c *AccountController) RotateSecret(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	secret, err := c.AuthService.RotateSecret(claims.AdminID)
	if err != nil {
		if errors.Is(err, util.ErrAccountNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"secret": secret})
}
