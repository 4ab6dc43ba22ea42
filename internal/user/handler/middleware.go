package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/playtube/playtube-api/internal/user/domain"
	"github.com/playtube/playtube-api/internal/user/service"
	"github.com/playtube/playtube-api/pkg/constant"
)

// RequireAuth is the request authenticator: it extracts the access token
// (cookie first, then Authorization header), verifies it, loads the identity
// and attaches it to the request context. Every failure cause returns the
// same message so callers cannot probe for account existence.
func RequireAuth(tokens service.TokenGenerator, repo domain.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(constant.AccessTokenCookie)
		if token == "" {
			token = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if token == "" {
			return apperror.Unauthorized("unauthorized request")
		}

		claims, err := tokens.VerifyAccessToken(token)
		if err != nil {
			return apperror.Unauthorized("unauthorized request")
		}

		user, err := repo.GetByID(c.Context(), claims.UserID)
		if err != nil || user == nil {
			return apperror.Unauthorized("unauthorized request")
		}

		c.Locals(constant.CurrentUserKey, user)

		return c.Next()
	}
}

// CurrentUser returns the identity attached by RequireAuth, or nil on
// unprotected routes.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(constant.CurrentUserKey).(*domain.User)
	return user
}
