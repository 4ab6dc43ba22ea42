package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/playtube/playtube-api/internal/user/dto"
	"github.com/playtube/playtube-api/internal/user/service"
)

type UserHandler struct {
	userService *service.UserService
	tempDir     string
}

func NewUserHandler(userService *service.UserService, tempDir string) *UserHandler {
	return &UserHandler{userService: userService, tempDir: tempDir}
}

func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	user := CurrentUser(c)
	return c.Status(fiber.StatusOK).
		JSON(dto.OK("current user fetched successfully", dto.NewUserOutput(user)))
}

func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	var input dto.UpdateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return apperror.Validation("invalid input")
	}
	if err := validate.Struct(input); err != nil {
		return apperror.Validation("all fields are required and email must be valid")
	}

	user := CurrentUser(c)

	updated, err := h.userService.UpdateAccountDetails(c.Context(), user.ID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(dto.OK("account details updated successfully", dto.NewUserOutput(updated)))
}

func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	path, err := saveTempFile(c, "avatar", h.tempDir)
	if err != nil {
		return apperror.Internal("failed to store uploaded file", err)
	}
	defer removeTempFiles(path)

	user := CurrentUser(c)

	updated, err := h.userService.UpdateAvatar(c.Context(), user.ID, path)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(dto.OK("avatar updated successfully", dto.NewUserOutput(updated)))
}

func (h *UserHandler) UpdateCoverImage(c *fiber.Ctx) error {
	path, err := saveTempFile(c, "coverImage", h.tempDir)
	if err != nil {
		return apperror.Internal("failed to store uploaded file", err)
	}
	defer removeTempFiles(path)

	user := CurrentUser(c)

	updated, err := h.userService.UpdateCoverImage(c.Context(), user.ID, path)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(dto.OK("cover image updated successfully", dto.NewUserOutput(updated)))
}

func (h *UserHandler) ChannelProfile(c *fiber.Ctx) error {
	user := CurrentUser(c)

	profile, err := h.userService.GetChannelProfile(c.Context(), user.ID, c.Params("username"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(dto.OK("channel profile fetched successfully", dto.NewChannelProfileOutput(profile)))
}

func (h *UserHandler) WatchHistory(c *fiber.Ctx) error {
	user := CurrentUser(c)

	history, err := h.userService.GetWatchHistory(c.Context(), user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).
		JSON(dto.OK("watch history fetched successfully", history))
}
