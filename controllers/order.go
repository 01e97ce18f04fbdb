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
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type createOrderInput struct {
	UserID             uint               `json:"user_id"`
	ProviderID         uint               `json:"provider_id"`
	ServiceType        string             `json:"service_type"`
	Date               string             `json:"date"`
	Time               string             `json:"time"`
	Price              models.FlexFloat   `json:"price"`
	Address            string             `json:"address"`
	Lat                *float64           `json:"lat"`
	Lng                *float64           `json:"lng"`
	DescriptionRequest string             `json:"description_request"`
	PhotosRequest      models.JSONStrings `json:"photos_request"`
}

// CreateOrder books a provider. New orders always start pending.
func CreateOrder(c *fiber.Ctx) error {
	input := new(createOrderInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	if input.UserID == 0 || input.ProviderID == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "user_id and provider_id are required")
	}
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)
	if _, err := time.Parse(models.DateLayout, input.Date); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(models.TimeLayout, input.Time); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "time must be HH:MM")
	}
	if input.Price < 0 {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrNegativePrice.Error())
	}

	for _, id := range []uint{input.UserID, input.ProviderID} {
		var n int64
		if err := db.DB.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			logger.L().Error("checking order parties", zap.Error(err))
			return utils.Fail(c, fiber.StatusInternalServerError, "failed to create order")
		}
		if n == 0 {
			return utils.Fail(c, fiber.StatusBadRequest, "unknown user_id or provider_id")
		}
	}

	order := models.ServiceOrder{
		UserID:             input.UserID,
		ProviderID:         input.ProviderID,
		ServiceType:        strings.TrimSpace(input.ServiceType),
		Date:               input.Date,
		Time:               input.Time,
		Status:             models.StatusPending,
		Price:              float64(input.Price),
		Address:            strings.TrimSpace(input.Address),
		Lat:                input.Lat,
		Lng:                input.Lng,
		DescriptionRequest: input.DescriptionRequest,
		PhotosRequest:      input.PhotosRequest,
	}
	if err := db.DB.Create(&order).Error; err != nil {
		logger.L().Error("creating order", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to create order")
	}
	metrics.OrdersCreated.Inc()

	logger.L().Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", order.UserID),
		zap.Uint("provider_id", order.ProviderID))
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetUserOrders lists a client's orders with the provider's display fields.
func GetUserOrders(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	orders := []models.OrderView{}
	err := db.DB.Table("service_orders AS o").
		Select("o.*, u.name AS provider_name, COALESCE(NULLIF(p.photo_url, ''), u.avatar_url) AS provider_photo").
		Joins("LEFT JOIN users AS u ON u.id = o.provider_id").
		Joins("LEFT JOIN professional_profiles AS p ON p.user_id = o.provider_id").
		Where("o.user_id = ?", id).
		Order("o.created_at DESC, o.id DESC").
		Scan(&orders).Error
	if err != nil {
		logger.L().Error("listing client orders", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list orders")
	}
	return c.JSON(orders)
}

// GetProviderOrders lists a provider's orders with the client's contact fields.
func GetProviderOrders(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	orders := []models.OrderView{}
	err := db.DB.Table("service_orders AS o").
		Select("o.*, u.name AS client_name, u.phone AS client_phone, u.avatar_url AS client_photo").
		Joins("LEFT JOIN users AS u ON u.id = o.user_id").
		Where("o.provider_id = ?", id).
		Order("o.created_at DESC, o.id DESC").
		Scan(&orders).Error
	if err != nil {
		logger.L().Error("listing provider orders", zap.Error(err))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to list orders")
	}
	return c.JSON(orders)
}

// GetOrder returns a single order.
func GetOrder(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	order, err := loadOrder(id)
	if err != nil {
		return orderLoadFailure(c, err)
	}
	return c.JSON(order)
}

// UpdateOrder applies a partial update, enforcing the order lifecycle.
func UpdateOrder(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}
	var patch models.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot parse JSON")
	}
	if patch.Status != nil && !patch.Status.Known() {
		return utils.Fail(c, fiber.StatusBadRequest, models.ErrUnknownStatus.Error())
	}

	order, err := loadOrder(id)
	if err != nil {
		return orderLoadFailure(c, err)
	}
	from := order.Status

	updates, err := order.Apply(patch)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	// The status guard in WHERE makes concurrent transitions from the same
	// state race safely: only one of them matches.
	res := db.DB.Model(&models.ServiceOrder{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(updates)
	if res.Error != nil {
		logger.L().Error("updating order", zap.Uint("order_id", order.ID), zap.Error(res.Error))
		return utils.Fail(c, fiber.StatusInternalServerError, "failed to update order")
	}
	if res.RowsAffected == 0 {
		return utils.Fail(c, fiber.StatusConflict, "order was changed by someone else, reload and try again")
	}
	if order.Status != from {
		metrics.OrderTransitions.WithLabelValues(string(order.Status)).Inc()
		logger.L().Info("order status changed",
			zap.Uint("order_id", order.ID),
			zap.String("from", string(from)),
			zap.String("to", string(order.Status)))
	}

	fresh, err := loadOrder(id)
	if err != nil {
		return orderLoadFailure(c, err)
	}
	return c.JSON(fresh)
}

func loadOrder(id uint) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	if err := db.DB.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func orderLoadFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "order not found")
	}
	logger.L().Error("loading order", zap.Error(err))
	return utils.Fail(c, fiber.StatusInternalServerError, "failed to load order")
}
