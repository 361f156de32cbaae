package controller

import (
	"errors"
	"fmt"

	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/service"
	"bench_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CampaignController struct {
	CampaignService *service.CampaignService
}

func NewCampaignController(campaignService *service.CampaignService) *CampaignController {
	return &CampaignController{CampaignService: campaignService}
}

type AddCampaignRequest struct {
	Name         string `json:"name" binding:"required"`
	Difficulties []int  `json:"difficulties" binding:"required,min=1"`
}

// Create godoc
// @Summary Create a benchmark campaign
// @Accept json
// @Produce json
// @Param body body AddCampaignRequest true "campaign payload"
// @Router /api/v1/admin/campaigns [post]
func (c *CampaignController) Create(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	campaign, err := c.CampaignService.Create(claims.AdminID, req.Name, req.Difficulties)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"campaign_id": campaign.ID})
}

// List godoc
// @Summary List the admin's campaigns
// @Produce json
// @Router /api/v1/admin/campaigns [get]
func (c *CampaignController) List(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaigns, err := c.CampaignService.List(claims.AdminID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, campaigns)
}

// Delete godoc
// @Summary Delete an owned campaign and all its submissions
// @Produce json
// @Router /api/v1/admin/campaigns/{id} [delete]
func (c *CampaignController) Delete(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaignID, ok := campaignIDParam(ctx)
	if !ok {
		return
	}

	if err := c.CampaignService.Delete(claims.AdminID, campaignID); err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// Results godoc
// @Summary Page through a campaign's submissions
// @Produce json
// @Param page query int false "zero-based page"
// @Param bench_type query string false "wasm or js"
// @Router /api/v1/admin/campaigns/{id}/results [get]
func (c *CampaignController) Results(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaignID, ok := campaignIDParam(ctx)
	if !ok {
		return
	}

	var query struct {
		Page      int     `form:"page"`
		BenchType *string `form:"bench_type"`
	}
	if err := ctx.ShouldBindQuery(&query); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var benchType *model.SubmissionType
	if query.BenchType != nil {
		t := model.SubmissionType(*query.BenchType)
		if !t.Valid() {
			util.BadRequest(ctx, util.ErrInvalidSubmissionType.Error())
			return
		}
		benchType = &t
	}

	results, err := c.CampaignService.Results(claims.AdminID, campaignID, query.Page, benchType)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  results,
		Page:  query.Page,
		Limit: c.CampaignService.ResultsPageSize(),
	})
}

// Export godoc
// @Summary Download a campaign's full result set as CSV
// @Produce text/csv
// @Router /api/v1/admin/campaigns/{id}/results/export [get]
func (c *CampaignController) Export(ctx *gin.Context) {
	claims := util.GetAdminFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaignID, ok := campaignIDParam(ctx)
	if !ok {
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", campaignID+".csv"))

	if err := c.CampaignService.ExportCSV(claims.AdminID, campaignID, ctx.Writer); err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
}

func campaignIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		util.BadRequest(ctx, "not a campaign id")
		return "", false
	}
	return id, true
}
