package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtube/playtube-api/internal/user/domain"
	"github.com/playtube/playtube-api/pkg/constant"
)

func authedGet(t *testing.T, ta *testApp, user *domain.User, path string) *http.Request {
	t.Helper()
	accessToken, _, err := ta.tokens.Generate(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: accessToken})
	return req
}

func TestCurrentUser(t *testing.T) {
	ta := newTestApp(t)

	user := &domain.User{
		ID:           "64b9f3d2a1c2e3f4a5b6c7d8",
		Username:     "nova",
		Email:        "nova@x.com",
		PasswordHash: "never-shown",
		RefreshToken: "never-shown",
	}
	ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	resp, err := ta.app.Test(authedGet(t, ta, user, "/api/v1/users/current-user"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "nova", data["username"])
	assert.NotContains(t, data, "passwordHash")
	assert.NotContains(t, data, "refreshToken")
}

func TestUpdateAccount(t *testing.T) {
	t.Run("success returns updated user", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		accessToken, _, err := ta.tokens.Generate(user)
		require.NoError(t, err)

		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
		ta.repo.EXPECT().UpdateAccountDetails(gomock.Any(), user.ID, "Nova Hart", "nova@x.com").Return(nil)
		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(&domain.User{
			ID:       user.ID,
			Username: "nova",
			FullName: "Nova Hart",
			Email:    "nova@x.com",
		}, nil)

		payload, _ := json.Marshal(map[string]string{"fullName": "Nova Hart", "email": "nova@x.com"})
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-account", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: accessToken})

		resp, err := ta.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		var data map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "Nova Hart", data["fullName"])
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		accessToken, _, err := ta.tokens.Generate(user)
		require.NoError(t, err)

		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		payload, _ := json.Marshal(map[string]string{"fullName": "", "email": ""})
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-account", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: accessToken})

		resp, err := ta.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestChannelProfile(t *testing.T) {
	t.Run("returns counts and subscription state", func(t *testing.T) {
		ta := newTestApp(t)

		viewer := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		channel := &domain.User{ID: "74b9f3d2a1c2e3f4a5b6c7d9", Username: "lumen", FullName: "Lumen TV"}

		ta.repo.EXPECT().GetByID(gomock.Any(), viewer.ID).Return(viewer, nil)
		ta.repo.EXPECT().GetByUsername(gomock.Any(), "lumen").Return(channel, nil)
		ta.subscription.EXPECT().CountSubscribers(gomock.Any(), channel.ID).Return(int64(42), nil)
		ta.subscription.EXPECT().CountSubscribedTo(gomock.Any(), channel.ID).Return(int64(7), nil)
		ta.subscription.EXPECT().IsSubscribed(gomock.Any(), viewer.ID, channel.ID).Return(true, nil)

		resp, err := ta.app.Test(authedGet(t, ta, viewer, "/api/v1/users/channel/lumen"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		var data struct {
			Username          string `json:"username"`
			SubscriberCount   int64  `json:"subscriberCount"`
			SubscribedToCount int64  `json:"subscribedToCount"`
			IsSubscribed      bool   `json:"isSubscribed"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "lumen", data.Username)
		assert.Equal(t, int64(42), data.SubscriberCount)
		assert.Equal(t, int64(7), data.SubscribedToCount)
		assert.True(t, data.IsSubscribed)
	})

	t.Run("unknown channel", func(t *testing.T) {
		ta := newTestApp(t)

		viewer := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		ta.repo.EXPECT().GetByID(gomock.Any(), viewer.ID).Return(viewer, nil)
		ta.repo.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, nil)

		resp, err := ta.app.Test(authedGet(t, ta, viewer, "/api/v1/users/channel/ghost"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestWatchHistory(t *testing.T) {
	t.Run("empty history is an empty array", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).Times(2)

		resp, err := ta.app.Test(authedGet(t, ta, user, "/api/v1/users/watch-history"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.Equal(t, "[]", string(bytes.TrimSpace(env.Data)))
	})

	t.Run("returns watched video ids", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{
			ID:           "64b9f3d2a1c2e3f4a5b6c7d8",
			Username:     "nova",
			WatchHistory: []string{"vid-1", "vid-2"},
		}
		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).Times(2)

		resp, err := ta.app.Test(authedGet(t, ta, user, "/api/v1/users/watch-history"))
		require.NoError(t, err)

		env := decodeEnvelope(t, resp)
		var history []string
		require.NoError(t, json.Unmarshal(env.Data, &history))
		assert.Equal(t, []string{"vid-1", "vid-2"}, history)
	})
}

func TestUpdateAvatar(t *testing.T) {
	ta := newTestApp(t)

	user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
	accessToken, _, err := ta.tokens.Generate(user)
	require.NoError(t, err)

	ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	ta.uploader.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("https://cdn.example.com/new.png", nil)
	ta.repo.EXPECT().UpdateAvatar(gomock.Any(), user.ID, "https://cdn.example.com/new.png").Return(nil)
	ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(&domain.User{
		ID:       user.ID,
		Username: "nova",
		Avatar:   "https://cdn.example.com/new.png",
	}, nil)

	body, contentType := registerForm(t, nil, true, false)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: accessToken})

	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "https://cdn.example.com/new.png", data["avatar"])
}
