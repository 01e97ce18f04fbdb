package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const providerColumns = "u.id, p.user_id, u.name, u.email, u.phone, u.city, u.avatar_url AS user_photo, " +
	"p.niche, p.base_price, p.rating, p.status, p.working_days, p.bio, p.photo_url"

func providerQuery() *gorm.DB {
	return db.DB.Table("users AS u").
		Select(providerColumns).
		Joins("JOIN professional_profiles AS p ON p.user_id = u.id").
		Where("u.account_type = ?", models.AccountProvider)
}

// GetProviders lists active providers, optionally by niche. With ?id= the
// single provider is returned whatever its moderation status.
func GetProviders(c *fiber.Ctx) error {
	q := providerQuery()

	id, present, ok := idQuery(c, "id")
	if !ok {
		return invalidID(c)
	}
	if present {
		q = q.Where("u.id = ?", id)
	} else {
		q = q.Where("p.status = ?", models.ProfileActive)
		niche := c.Query("nicho")
		if niche == "" {
			niche = c.Query("niche")
		}
		if niche = strings.TrimSpace(niche); niche != "" {
			q = q.Where("p.niche = ?", niche)
		}
	}

	providers := []models.ProviderListing{}
	if err := q.Order("p.rating DESC, u.name ASC").Scan(&providers).Error; err != nil {
		logger.L().Error("listing providers", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list providers")
	}
	for i := range providers {
		providers[i].Email = ""
	}
	return c.JSON(providers)
}

// GetProfessionalProfile returns the profile owned by user :id.
func GetProfessionalProfile(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var profile models.ProfessionalProfile
	err := db.DB.Where("user_id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "profile not found")
	}
	if err != nil {
		logger.L().Error("loading profile", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(profile)
}

// UpdateProfessionalProfile partially updates the profile owned by user :id.
// Moderation status is not writable here.
func UpdateProfessionalProfile(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	body := make(map[string]interface{})
	if err := c.BodyParser(&body); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	normalizeWorkingDays(body)

	updates, err := utils.PickUpdates(body, profileFields)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if len(updates) == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrNoFields.Error())
	}
	if price, ok := updates["base_price"].(float64); ok && price < 0 {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrNegativePrice.Error())
	}

	var profile models.ProfessionalProfile
	if err := db.DB.Where("user_id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "profile not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	if err := db.DB.Model(&profile).Updates(updates).Error; err != nil {
		logger.L().Error("updating profile", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to update profile")
	}
	if err := db.DB.First(&profile, profile.ID).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to load profile")
	}
	return c.JSON(profile)
}
