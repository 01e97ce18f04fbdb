package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
)

// GetAdminProviders lists every provider with its moderation status.
func GetAdminProviders(c *fiber.Ctx) error {
	providers := []models.ProviderListing{}
	if err := providerQuery().Order("u.name ASC").Scan(&providers).Error; err != nil {
		logger.L().Error("listing providers for moderation", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list providers")
	}
	return c.JSON(providers)
}

// UpdateProviderStatus moves a provider's profile between pending, active
// and blocked.
func UpdateProviderStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var input struct {
		Status models.ProfileStatus `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	if !input.Status.Valid() {
		return utils.Fail(c, fiber.StatusBadRequest, "status must be pending, active or blocked")
	}

	res := db.DB.Model(&models.ProfessionalProfile{}).
		Where("user_id = ?", id).
		Update("status", input.Status)
	if res.Error != nil {
		logger.L().Error("updating provider status", zap.Error(res.Error))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to update status")
	}
	if res.RowsAffected == 0 {
		return utils.Fail(c, fiber.StatusNotFound, "provider profile not found")
	}

	logger.L().Info("provider status changed",
		zap.Uint("provider_id", id),
		zap.String("status", string(input.Status)),
		zap.Any("admin_id", c.Locals("userID")))
	return c.JSON(fiber.Map{"message": "status updated", "status": input.Status})
}
