package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/metrics"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/redis"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetScope = "forgot-password"

type forgotInput struct {
	Identifier string `json:"identifier"`
}

// ForgotPassword e-mails a fresh 6-digit code, replacing any earlier one.
func ForgotPassword(c *fiber.Ctx) error {
	input := new(forgotInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	if identifier == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "identifier is required")
	}

	var user models.User
	err := db.DB.Where("LOWER(email) = ? OR phone = ?", identifier, identifier).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		logger.L().Error("loading user for reset", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	ctx := c.UserContext()
	allowed, _ := redis.Cooldown(ctx, resetScope, user.Email, authCfg.ResetCooldown)
	if !allowed {
		return utils.Fail(c, fiber.StatusTooManyRequests, "a code was sent recently, wait a minute before asking again")
	}

	code, err := utils.GenerateOTP(6)
	if err != nil {
		redis.Release(ctx, resetScope, user.Email)
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	reset := models.PasswordReset{
		Email:     user.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(authCfg.ResetCodeTTL),
	}
	if err := db.DB.Where("email = ?", user.Email).Delete(&models.PasswordReset{}).Error; err != nil {
		redis.Release(ctx, resetScope, user.Email)
		logger.L().Error("deleting previous reset codes", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if err := db.DB.Create(&reset).Error; err != nil {
		redis.Release(ctx, resetScope, user.Email)
		logger.L().Error("storing reset code", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	subject, body := utils.ResetCodeEmail(user.Name, code, int(authCfg.ResetCodeTTL.Minutes()))
	if err := utils.SendEmail(ctx, user.Email, subject, body); err != nil {
		redis.Release(ctx, resetScope, user.Email)
		logger.L().Error("sending reset e-mail", zap.String("email", user.Email), zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError,
			"could not send the e-mail with your code, check your connection and try again")
	}

	metrics.ResetCodesIssued.Inc()
	return c.JSON(fiber.Map{"message": "code sent", "email": user.Email})
}

type resetInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetPassword swaps the password when the code matches and is unexpired.
func ResetPassword(c *fiber.Ctx) error {
	input := new(resetInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" || input.NewPassword == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "email, code and new_password are required")
	}

	var reset models.PasswordReset
	err := db.DB.Where("email = ?", email).Order("created_at DESC").First(&reset).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.L().Error("loading reset code", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if err != nil || !reset.Accepts(code, time.Now()) {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid or expired code")
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to hash password")
	}
	if err := db.DB.Model(&models.User{}).Where("email = ?", email).Update("password", hashed).Error; err != nil {
		logger.L().Error("updating password", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to update password")
	}
	if err := db.DB.Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
		logger.L().Warn("deleting used reset code", zap.Error(err))
	}

	return c.JSON(fiber.Map{"message": "password updated"})
}
