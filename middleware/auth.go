package middleware

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/utils"
	"go.uber.org/zap"
)

var errNoSubject = errors.New("token carries no usable account id")

// Protected validates the bearer token and stores userID, accountType and
// isAdmin in the request locals.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: rejectToken,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			if token == nil {
				return utils.Fail(c, fiber.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return utils.Fail(c, fiber.StatusUnauthorized, "invalid token claims")
			}

			id, err := accountID(claims)
			if err != nil {
				logger.L().Debug("rejecting token", zap.Error(err))
				return utils.Fail(c, fiber.StatusUnauthorized, "invalid user id in token")
			}
			accountType, _ := claims["account_type"].(string)
			isAdmin, _ := claims["is_admin"].(bool)

			c.Locals("userID", id)
			c.Locals("accountType", accountType)
			c.Locals("isAdmin", isAdmin)
			return c.Next()
		},
	})
}

// accountID reads the id claim, which JSON decoding leaves as a float64 or,
// for tokens minted elsewhere, a decimal string.
func accountID(claims jwt.MapClaims) (uint, error) {
	switch v := claims["id"].(type) {
	case float64:
		if v > 0 {
			return uint(v), nil
		}
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			return uint(n), nil
		}
	}
	return 0, errNoSubject
}

func rejectToken(c *fiber.Ctx, err error) error {
	logger.L().Debug("jwt rejected", zap.Error(err))
	return utils.Fail(c, fiber.StatusUnauthorized, "invalid or expired token")
}
