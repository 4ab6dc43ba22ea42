package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/playtube/playtube-api/internal/user/domain UserRepository,SubscriptionRepository
//go:generate mockgen -destination=../../mocks/mock_uploader.go -package=mocks github.com/playtube/playtube-api/internal/user/service Uploader

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/playtube/playtube-api/internal/lib/sl"
	"github.com/playtube/playtube-api/internal/user/domain"
	"github.com/playtube/playtube-api/internal/user/dto"
)

// Uploader pushes a locally saved file to the media host and returns the
// hosted URL. Implementations must remove the local file whether or not the
// upload succeeded.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type UserService struct {
	logger       *slog.Logger
	repo         domain.UserRepository
	subscription domain.SubscriptionRepository
	tokens       TokenGenerator
	uploader     Uploader
}

func NewUserService(
	logger *slog.Logger,
	repo domain.UserRepository,
	subscription domain.SubscriptionRepository,
	tokens TokenGenerator,
	uploader Uploader,
) *UserService {
	return &UserService{
		logger:       logger,
		repo:         repo,
		subscription: subscription,
		tokens:       tokens,
		uploader:     uploader,
	}
}

// HashPassword is the single write path for secrets: callers hash exactly once,
// right before persisting. There is no save hook that could re-hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	log := s.logger.With(slog.String("op", "user.Register"))

	username := strings.ToLower(strings.TrimSpace(input.Username))
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)

	if username == "" || fullName == "" || email == "" || password == "" {
		return nil, apperror.Validation("all fields are required")
	}

	// The existence check must resolve before branching.
	existing, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		log.Error("failed to check existing user", sl.Err(err))
		return nil, apperror.Internal("failed to register user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user with email or username already exists")
	}

	if input.AvatarLocalPath == "" {
		return nil, apperror.Validation("avatar image is required")
	}

	avatarURL, err := s.uploader.Upload(ctx, input.AvatarLocalPath)
	if err != nil {
		log.Error("avatar upload failed", sl.Err(err))
		return nil, apperror.Internal("failed to upload avatar image", err)
	}

	coverImageURL := ""
	if input.CoverImageLocalPath != "" {
		coverImageURL, err = s.uploader.Upload(ctx, input.CoverImageLocalPath)
		if err != nil {
			// Cover image is optional; the account is still created.
			log.Warn("cover image upload failed", sl.Err(err))
			coverImageURL = ""
		}
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return nil, apperror.Internal("failed to register user", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatarURL,
		CoverImage:   coverImageURL,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if appErr, ok := apperror.As(err); ok {
			return nil, appErr
		}
		log.Error("failed to create user", sl.Err(err))
		return nil, apperror.Internal("failed to register user", err)
	}

	// Defensive re-fetch: the created record must be readable.
	created, err := s.repo.GetByID(ctx, user.ID)
	if err != nil || created == nil {
		log.Error("post-create fetch failed", slog.String("userID", user.ID))
		return nil, apperror.Internal("something went wrong while registering the user", err)
	}

	log.Info("user registered", slog.String("userID", created.ID), slog.String("username", created.Username))

	return created, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*domain.User, *dto.TokenResponse, error) {
	log := s.logger.With(slog.String("op", "user.Login"))

	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)

	if username == "" && email == "" {
		return nil, nil, apperror.Validation("username or email is required")
	}
	if password == "" {
		return nil, nil, apperror.Validation("password is required")
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		log.Error("failed to look up user", sl.Err(err))
		return nil, nil, apperror.Internal("failed to log in", err)
	}
	if user == nil {
		return nil, nil, apperror.NotFound("user does not exist")
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, apperror.Unauthorized("invalid user credentials")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return nil, nil, err
	}

	log.Info("user logged in", slog.String("userID", user.ID))

	return user, tokens, nil
}

// Logout clears the stored refresh token. Calling it twice is not an error.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		s.logger.Error("failed to clear refresh token", slog.String("op", "user.Logout"), sl.Err(err))
		return apperror.Internal("failed to log out", err)
	}
	return nil
}

// Refresh rotates the token pair. The presented token must match the stored
// value exactly; a superseded token fails here even though its signature
// still verifies, which is the reuse-detection mechanism.
func (s *UserService) Refresh(ctx context.Context, presented string) (*dto.TokenResponse, error) {
	log := s.logger.With(slog.String("op", "user.Refresh"))

	if presented == "" {
		return nil, apperror.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		log.Error("failed to look up user", sl.Err(err))
		return nil, apperror.Internal("failed to refresh token", err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	if user.RefreshToken != presented {
		return nil, apperror.Unauthorized("refresh token is expired or used")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		log.Error("failed to rotate tokens", sl.Err(err))
		return nil, err
	}

	log.Info("token pair rotated", slog.String("userID", user.ID))

	return tokens, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	log := s.logger.With(slog.String("op", "user.ChangePassword"))

	if input.NewPassword != input.ConfirmPassword {
		return apperror.Validation("new password and confirm password do not match")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		log.Error("failed to look up user", sl.Err(err))
		return apperror.Internal("failed to change password", err)
	}
	if user == nil {
		return apperror.NotFound("user does not exist")
	}

	if !checkPassword(user.PasswordHash, input.OldPassword) {
		return apperror.Validation("invalid old password")
	}

	passwordHash, err := HashPassword(input.NewPassword)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return apperror.Internal("failed to change password", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
		log.Error("failed to store password hash", sl.Err(err))
		return apperror.Internal("failed to change password", err)
	}

	log.Info("password changed", slog.String("userID", userID))

	return nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to fetch user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user does not exist")
	}
	return user, nil
}

func (s *UserService) UpdateAccountDetails(ctx context.Context, userID string, input dto.UpdateAccountInput) (*domain.User, error) {
	log := s.logger.With(slog.String("op", "user.UpdateAccountDetails"))

	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	if fullName == "" || email == "" {
		return nil, apperror.Validation("all fields are required")
	}

	if err := s.repo.UpdateAccountDetails(ctx, userID, fullName, email); err != nil {
		if appErr, ok := apperror.As(err); ok {
			return nil, appErr
		}
		log.Error("failed to update account details", sl.Err(err))
		return nil, apperror.Internal("failed to update account details", err)
	}

	return s.GetByID(ctx, userID)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	log := s.logger.With(slog.String("op", "user.UpdateAvatar"))

	if localPath == "" {
		return nil, apperror.Validation("avatar file is missing")
	}

	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		log.Error("avatar upload failed", sl.Err(err))
		return nil, apperror.Internal("failed to upload avatar image", err)
	}

	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		log.Error("failed to store avatar url", sl.Err(err))
		return nil, apperror.Internal("failed to update avatar", err)
	}

	return s.GetByID(ctx, userID)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	log := s.logger.With(slog.String("op", "user.UpdateCoverImage"))

	if localPath == "" {
		return nil, apperror.Validation("cover image file is missing")
	}

	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		log.Error("cover image upload failed", sl.Err(err))
		return nil, apperror.Internal("failed to upload cover image", err)
	}

	if err := s.repo.UpdateCoverImage(ctx, userID, url); err != nil {
		log.Error("failed to store cover image url", sl.Err(err))
		return nil, apperror.Internal("failed to update cover image", err)
	}

	return s.GetByID(ctx, userID)
}

func (s *UserService) GetChannelProfile(ctx context.Context, viewerID, username string) (*domain.ChannelProfile, error) {
	log := s.logger.With(slog.String("op", "user.GetChannelProfile"))

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperror.Validation("username is missing")
	}

	channel, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		log.Error("failed to look up channel", sl.Err(err))
		return nil, apperror.Internal("failed to fetch channel profile", err)
	}
	if channel == nil {
		return nil, apperror.NotFound("channel does not exist")
	}

	subscribers, err := s.subscription.CountSubscribers(ctx, channel.ID)
	if err != nil {
		log.Error("failed to count subscribers", sl.Err(err))
		return nil, apperror.Internal("failed to fetch channel profile", err)
	}

	subscribedTo, err := s.subscription.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		log.Error("failed to count subscriptions", sl.Err(err))
		return nil, apperror.Internal("failed to fetch channel profile", err)
	}

	isSubscribed, err := s.subscription.IsSubscribed(ctx, viewerID, channel.ID)
	if err != nil {
		log.Error("failed to check subscription", sl.Err(err))
		return nil, apperror.Internal("failed to fetch channel profile", err)
	}

	return &domain.ChannelProfile{
		User:              channel,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

func (s *UserService) GetWatchHistory(ctx context.Context, userID string) ([]string, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.WatchHistory == nil {
		return []string{}, nil
	}
	return user.WatchHistory, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperror.Internal("failed to generate tokens", err)
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, apperror.Internal("failed to persist refresh token", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
