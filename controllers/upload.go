package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
)

const uploadFolder = "marketplace"

// UploadImage stores the multipart "file" field and answers its public URL.
func UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "file is required")
	}
	file, err := header.Open()
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "cannot read file")
	}
	defer file.Close()

	url, err := utils.Media.Upload(c.UserContext(), file, utils.GenerateUUID(), uploadFolder)
	if err != nil {
		logger.L().Error("uploading image", zap.String("filename", header.Filename), zap.Error(err))
		return utils.Fail(c, fiber.StatusBadGateway, "image upload failed")
	}
	return c.JSON(fiber.Map{"url": url})
}
