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

var userFields = map[string]utils.Field{
	"name":       {Column: "name", Required: true},
	"phone":      {Column: "phone", Required: true},
	"city":       {Column: "city"},
	"avatar_url": {Column: "avatar_url"},
}

var profileFields = map[string]utils.Field{
	"niche":        {Column: "niche", Required: true},
	"base_price":   {Column: "base_price", Kind: utils.NumberField},
	"photo_url":    {Column: "photo_url"},
	"working_days": {Column: "working_days"},
	"bio":          {Column: "bio"},
}

// FindUserByEmail serves GET /users/find-by-email?email=
func FindUserByEmail(c *fiber.Ctx) error {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "email is required")
	}

	var found models.UserLookup
	res := db.DB.Model(&models.User{}).
		Select("id, name, email, account_type, is_admin").
		Where("LOWER(email) = ?", email).
		Limit(1).
		Scan(&found)
	if res.Error != nil {
		logger.L().Error("finding user by email", zap.Error(res.Error))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if res.RowsAffected == 0 {
		return utils.Fail(c, fiber.StatusNotFound, "user not found")
	}
	return c.JSON(found)
}

// UpdateUser serves PUT/PATCH /users/:id.
func UpdateUser(c *fiber.Ctx) error {
	return updateAccount(c, false)
}

// UpdateProvider serves PUT /providers/:id; users without a profile get a
// 404 so callers can fall back to the user route.
func UpdateProvider(c *fiber.Ctx) error {
	return updateAccount(c, true)
}

func updateAccount(c *fiber.Ctx, requireProfile bool) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	body := make(map[string]interface{})
	if err := c.BodyParser(&body); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	normalizeWorkingDays(body)

	userUpdates, err := utils.PickUpdates(body, userFields)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	profileUpdates, err := utils.PickUpdates(body, profileFields)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if price, ok := profileUpdates["base_price"].(float64); ok && price < 0 {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrNegativePrice.Error())
	}

	var user models.User
	if err := db.DB.Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "user not found")
		}
		logger.L().Error("loading user", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if requireProfile && user.Profile == nil {
		return utils.Fail(c, fiber.StatusNotFound, "provider profile not found")
	}
	if user.Profile == nil {
		profileUpdates = nil
	}
	if len(userUpdates) == 0 && len(profileUpdates) == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrNoFields.Error())
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(profileUpdates) > 0 {
			if err := tx.Model(&models.ProfessionalProfile{}).Where("user_id = ?", user.ID).Updates(profileUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusBadRequest, duplicateAccountMsg)
		}
		logger.L().Error("updating account", zap.Uint("user_id", id), zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	if err := db.DB.Preload("Profile").First(&user, id).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to retrieve updated profile")
	}
	user.Password = ""
	return c.JSON(user)
}

// normalizeWorkingDays lets clients send the agenda as a list.
func normalizeWorkingDays(body map[string]interface{}) {
	list, ok := body["working_days"].([]interface{})
	if !ok {
		return
	}
	days := make([]string, 0, len(list))
	for _, d := range list {
		if s, ok := d.(string); ok {
			days = append(days, s)
		}
	}
	body["working_days"] = models.JoinDays(days)
}
