package controller

import (
	"errors"

	"bench_survey_backend/internal/service"
	"bench_survey_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BenchController struct {
	BenchService *service.BenchService
}

func NewBenchController(benchService *service.BenchService) *BenchController {
	return &BenchController{BenchService: benchService}
}

// Register godoc
// @Summary Register an anonymous survey participant
// @Produce json
// @Router /api/v1/bench/register [post]
func (c *BenchController) Register(ctx *gin.Context) {
	id, token, err := c.BenchService.Register()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": id, "token": token})
}

// Config godoc
// @Summary Fetch the difficulty levels a participant must run
// @Produce json
// @Router /api/v1/bench/{campaign_id}/config [get]
func (c *BenchController) Config(ctx *gin.Context) {
	campaignID, ok := benchCampaignIDParam(ctx)
	if !ok {
		return
	}

	cfg, err := c.BenchService.Config(ctx.Request.Context(), campaignID)
	if err != nil {
		if errors.Is(err, util.ErrCampaignNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, cfg)
}

// Submit godoc
// @Summary Submit benchmark results for a campaign
// @Accept json
// @Produce json
// @Router /api/v1/bench/{campaign_id}/submit [post]
func (c *BenchController) Submit(ctx *gin.Context) {
	claims := util.GetSurveyUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	campaignID, ok := benchCampaignIDParam(ctx)
	if !ok {
		return
	}

	var sub service.Submission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	proof, err := c.BenchService.Submit(claims.SurveyUserID, campaignID, &sub)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidSubmissionType):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrCampaignNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, proof)
}

func benchCampaignIDParam(ctx *gin.Context) (string, bool) {
	id := ctx.Param("campaign_id")
	if _, err := uuid.Parse(id); err != nil {
		util.BadRequest(ctx, "not a campaign id")
		return "", false
	}
	return id, true
}
