package controllers

import (
	"errors"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errOrderNotReviewable = errors.New("only completed orders of this client and provider can be reviewed")

// CreateReview records a client's review of a completed order and refreshes
// the provider's average rating.
func CreateReview(c *fiber.Ctx) error {
	var review models.Review
	if err := c.BodyParser(&review); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	review.ID = 0
	review.Comment = strings.TrimSpace(review.Comment)
	if err := review.Validate(); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if review.OrderID == 0 || review.ProviderID == 0 || review.UserID == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "order_id, provider_id and user_id are required")
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var order models.ServiceOrder
		if err := tx.First(&order, review.OrderID).Error; err != nil {
			return err
		}
		if order.Status != models.StatusCompleted ||
			order.UserID != review.UserID || order.ProviderID != review.ProviderID {
			return errOrderNotReviewable
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return refreshRating(tx, review.ProviderID)
	})
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "order not found")
	case errors.Is(err, errOrderNotReviewable):
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.Fail(c, fiber.StatusBadRequest, "this order was already reviewed")
	default:
		logger.L().Error("creating review", zap.Uint("order_id", review.OrderID), zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to save review")
	}

	logger.L().Info("review created",
		zap.Uint("order_id", review.OrderID),
		zap.Uint("provider_id", review.ProviderID),
		zap.Int("rating", review.Rating))
	return c.Status(fiber.StatusCreated).JSON(review)
}

// refreshRating stores the provider's average review rating, one decimal.
func refreshRating(tx *gorm.DB, providerID uint) error {
	var avg float64
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("provider_id = ?", providerID).
		Scan(&avg).Error; err != nil {
		return err
	}
	if avg == 0 {
		avg = models.DefaultRating
	}
	return tx.Model(&models.ProfessionalProfile{}).
		Where("user_id = ?", providerID).
		Update("rating", math.Round(avg*10)/10).Error
}

// GetProviderReviews lists a provider's reviews, newest first.
func GetProviderReviews(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	reviews := []models.ReviewView{}
	err := db.DB.Table("reviews AS r").
		Select("r.*, u.name AS client_name, u.avatar_url AS client_photo").
		Joins("LEFT JOIN users AS u ON u.id = r.user_id").
		Where("r.provider_id = ?", id).
		Order("r.created_at DESC, r.id DESC").
		Scan(&reviews).Error
	if err != nil {
		logger.L().Error("listing reviews", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list reviews")
	}
	return c.JSON(reviews)
}
