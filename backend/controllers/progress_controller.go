package controllers

import (
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/engine"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Manager *engine.Manager
}

func NewProgressController(db *gorm.DB, cfg *config.Config, manager *engine.Manager) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Manager: manager}
}

// engineFor resolves the authenticated user's engine, starting one lazily
// if the server restarted since sign-in.
func (pc *ProgressController) engineFor(c *fiber.Ctx) (*engine.Engine, error) {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unknown user")
	}

	return pc.Manager.EngineFor(c.Context(), userID, userLocation(user.Timezone)), nil
}

// GetProgress godoc
// @Summary Get today's progress
// @Description Returns today's stage completion snapshot and the displayed streak
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	eng, err := pc.engineFor(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"progress": eng.Snapshot(),
		"streak":   eng.Streak(),
	})
}

type CompleteStageInput struct {
	Stage     string `json:"stage"`
	PassageID *uint  `json:"passage_id,omitempty"`
}

// CompleteStage godoc
// @Summary Complete a daily stage
// @Description Marks one of check_in, passage, insight done for today. Idempotent.
// @Tags progress
// @Accept json
// @Produce json
// @Param input body CompleteStageInput true "Stage to complete"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/stage [post]
func (pc *ProgressController) CompleteStage(c *fiber.Ctx) error {
	eng, err := pc.engineFor(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input CompleteStageInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	stage, ok := engine.ParseStage(input.Stage)
	if !ok {
		return utils.BadRequest(c, "Unknown stage")
	}

	snapshot := eng.CompleteStage(stage, input.PassageID)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"progress": snapshot,
		"streak":   eng.Streak(),
	})
}

// Refresh godoc
// @Summary Refresh progress from the store
// @Description Replaces the cached state with authoritative data (pull-to-refresh)
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/refresh [post]
func (pc *ProgressController) Refresh(c *fiber.Ctx) error {
	eng, err := pc.engineFor(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	if err := eng.Refresh(c.Context()); err != nil {
		// Fail-soft: the engine kept its previous state, report it.
		return utils.Error(c, fiber.StatusBadGateway, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"progress": eng.Snapshot(),
		"streak":   eng.Streak(),
		"week":     eng.WeeklyView(),
	})
}

// Resume godoc
// @Summary App-foreground resume hook
// @Description Refreshes only if the local date changed while the app was suspended
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/resume [post]
func (pc *ProgressController) Resume(c *fiber.Ctx) error {
	eng, err := pc.engineFor(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	refreshed, err := eng.OnResume(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"refreshed": refreshed,
		"progress":  eng.Snapshot(),
		"streak":    eng.Streak(),
	})
}

// GetWeek godoc
// @Summary Get the weekly completion view
// @Description Returns the Monday..Sunday completion view for the current week
// @Tags progress
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/week [get]
func (pc *ProgressController) GetWeek(c *fiber.Ctx) error {
	eng, err := pc.engineFor(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"week": eng.WeeklyView(),
	})
}

// GetMonth godoc
// @Summary Get completed days of a month
// @Description Returns the day numbers with all stages done, for calendar rendering
// @Tags progress
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/month [get]
func (pc *ProgressController) GetMonth(c *fiber.Ctx) error {
	eng, err := pc.engineFor(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return utils.BadRequest(c, "Invalid year")
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return utils.BadRequest(c, "Invalid month")
	}

	days, err := eng.MonthlyCompletedDays(c.Context(), year, time.Month(month))
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch month completions")
	}
	if days == nil {
		days = []int{}
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"year":  year,
		"month": month,
		"days":  days,
	})
}
