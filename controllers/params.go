package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/utils"
)

// idParam reads the positive numeric :id route parameter.
func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// idQuery reads ?key= as a positive id. present is false when the key is
// absent or blank.
func idQuery(c *fiber.Ctx, key string) (id uint, present, ok bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, true, false
	}
	return uint(n), true, true
}

func invalidID(c *fiber.Ctx) error {
	return utils.Fail(c, fiber.StatusBadRequest, "invalid id")
}
