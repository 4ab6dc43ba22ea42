package handler

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/playtube/playtube-api/internal/user/dto"
	"github.com/playtube/playtube-api/internal/user/service"
	"github.com/playtube/playtube-api/pkg/constant"
)

var validate = validator.New()

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	tempDir      string
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator, tempDir string) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		tempDir:      tempDir,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input := dto.RegisterInput{
		Username: c.FormValue("username"),
		FullName: c.FormValue("fullName"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if err := validate.Struct(input); err != nil {
		return apperror.Validation("all fields are required and email must be valid")
	}

	avatarPath, err := saveTempFile(c, "avatar", h.tempDir)
	if err != nil {
		return apperror.Internal("failed to store uploaded file", err)
	}
	coverPath, err := saveTempFile(c, "coverImage", h.tempDir)
	if err != nil {
		return apperror.Internal("failed to store uploaded file", err)
	}
	// The uploader removes consumed files; this covers paths the service
	// never reached (e.g. a duplicate-user rejection).
	defer removeTempFiles(avatarPath, coverPath)

	input.AvatarLocalPath = avatarPath
	input.CoverImageLocalPath = coverPath

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).
		JSON(dto.OK("user registered successfully", dto.NewUserOutput(user)))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return apperror.Validation("invalid input")
	}

	user, tokens, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, tokens)

	return c.Status(fiber.StatusOK).JSON(dto.OK("user logged in successfully", dto.LoginOutput{
		User:         dto.NewUserOutput(user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := CurrentUser(c)

	if err := h.userService.Logout(c.Context(), user.ID); err != nil {
		return err
	}

	h.clearTokenCookies(c)

	return c.Status(fiber.StatusOK).JSON(dto.OK("user logged out successfully", nil))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	presented := c.Cookies(constant.RefreshTokenCookie)
	if presented == "" {
		var input dto.RefreshInput
		if err := c.BodyParser(&input); err == nil {
			presented = input.RefreshToken
		}
	}

	tokens, err := h.userService.Refresh(c.Context(), presented)
	if err != nil {
		return err
	}

	h.setTokenCookies(c, tokens)

	return c.Status(fiber.StatusOK).JSON(dto.OK("access token refreshed", tokens))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return apperror.Validation("invalid input")
	}
	if err := validate.Struct(input); err != nil {
		return apperror.Validation("all fields are required")
	}

	user := CurrentUser(c)

	if err := h.userService.ChangePassword(c.Context(), user.ID, input); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dto.OK("password changed successfully", nil))
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, tokens *dto.TokenResponse) {
	now := time.Now()
	c.Cookie(&fiber.Cookie{
		Name:     constant.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Expires:  now.Add(h.tokenService.GetAccessTokenExpiry()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshTokenCookie,
		Value:    tokens.RefreshToken,
		Expires:  now.Add(h.tokenService.GetRefreshTokenExpiry()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{constant.AccessTokenCookie, constant.RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
	}
}

// saveTempFile writes the named multipart file to the temp dir and returns its
// path. A missing file is not an error; the caller decides whether it was
// required.
func saveTempFile(c *fiber.Ctx, field, tempDir string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(tempDir, uuid.NewString()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return "", err
	}

	return path, nil
}

func removeTempFiles(paths ...string) {
	for _, path := range paths {
		if path != "" {
			_ = os.Remove(path)
		}
	}
}
