package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, authHandler *AuthHandler, userHandler *UserHandler, requireAuth fiber.Handler) {
	users := app.Group("/api/v1/users")

	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Post("/refresh-token", authHandler.Refresh)

	// Secured routes
	users.Post("/logout", requireAuth, authHandler.Logout)
	users.Post("/change-password", requireAuth, authHandler.ChangePassword)
	users.Get("/current-user", requireAuth, userHandler.CurrentUser)
	users.Patch("/update-account", requireAuth, userHandler.UpdateAccount)
	users.Patch("/update-avatar", requireAuth, userHandler.UpdateAvatar)
	users.Patch("/update-cover-image", requireAuth, userHandler.UpdateCoverImage)
	users.Get("/channel/:username", requireAuth, userHandler.ChannelProfile)
	users.Get("/watch-history", requireAuth, userHandler.WatchHistory)
}
