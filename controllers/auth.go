package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/config"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const duplicateAccountMsg = "email or phone already registered"

var authCfg = config.AuthConfig{
	JWTSecret:     "solid_secret_key",
	TokenTTL:      24 * time.Hour,
	ResetCodeTTL:  15 * time.Minute,
	ResetCooldown: time.Minute,
}

// Configure sets the token and reset-code settings used by the handlers.
func Configure(cfg config.AuthConfig) {
	authCfg = cfg
}

type registerInput struct {
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	AccountType models.AccountType `json:"account_type"`
	City        string             `json:"city"`
	Niche       string             `json:"niche"`
	BasePrice   models.FlexFloat   `json:"base_price"`
}

// Register handles user registration
func Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.Email == "" || input.Phone == "" || input.Password == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "name, phone, email and password are required")
	}
	if input.AccountType == "" {
		input.AccountType = models.AccountClient
	}
	if input.AccountType != models.AccountClient && input.AccountType != models.AccountProvider {
		return utils.Fail(c, fiber.StatusBadRequest, "account_type must be client or provider")
	}
	if input.BasePrice < 0 {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrNegativePrice.Error())
	}

	var existing int64
	if err := db.DB.Model(&models.User{}).
		Where("LOWER(email) = ? OR phone = ?", input.Email, input.Phone).
		Count(&existing).Error; err != nil {
		logger.L().Error("checking existing account", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
	if existing > 0 {
		return utils.Fail(c, fiber.StatusBadRequest, duplicateAccountMsg)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Password:    hashed,
		AccountType: input.AccountType,
		City:        strings.TrimSpace(input.City),
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.AccountType != models.AccountProvider {
			return nil
		}
		niche := strings.TrimSpace(input.Niche)
		if niche == "" {
			niche = models.DefaultNiche
		}
		profile := models.ProfessionalProfile{
			UserID:    user.ID,
			Niche:     niche,
			BasePrice: float64(input.BasePrice),
			Rating:    models.DefaultRating,
			Status:    models.ProfilePending,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Fail(c, fiber.StatusBadRequest, duplicateAccountMsg)
		}
		logger.L().Error("creating account", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginInput struct {
	Email      string `json:"email"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login accepts an email or a phone number as the identifier.
func Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}

	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(input.Email)
	}
	if identifier == "" || input.Password == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "identifier and password are required")
	}

	var user models.User
	err := db.DB.Preload("Profile").
		Where("LOWER(email) = ? OR phone = ?", strings.ToLower(identifier), identifier).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Fail(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		logger.L().Error("loading user for login", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}

	if !utils.CheckPassword(user.Password, input.Password) {
		return utils.Fail(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(&user, authCfg.JWTSecret, authCfg.TokenTTL)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}
