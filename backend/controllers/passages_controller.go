package controllers

import (
	"time"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PassagesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPassagesController(db *gorm.DB, cfg *config.Config) *PassagesController {
	return &PassagesController{DB: db, Cfg: cfg}
}

// GetToday godoc
// @Summary Get today's reflection passage
// @Description Returns the passage of the day, rotated deterministically over the seeded texts
// @Tags passages
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /passages/today [get]
func (pc *PassagesController) GetToday(c *fiber.Ctx) error {
	var count int64
	if err := pc.DB.Model(&models.Passage{}).Count(&count).Error; err != nil {
		return utils.InternalServerError(c, "Failed to count passages")
	}
	if count == 0 {
		return utils.NotFound(c, "No passages seeded")
	}

	// Same passage for everyone on a given day; rotation keyed by the
	// days elapsed since the Unix epoch.
	days := time.Now().Unix() / 86400
	offset := int(days % count)

	var passage models.Passage
	if err := pc.DB.Order("id").Offset(offset).First(&passage).Error; err != nil {
		return utils.InternalServerError(c, "Failed to fetch passage")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         passage.ID,
		"author":     passage.Author,
		"title":      passage.Title,
		"translator": passage.Translator,
		"content":    passage.Content,
	})
}
