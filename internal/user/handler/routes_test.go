package handler_test

import (
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

// TestRegisterRoutes verifies that every route is mounted: anything that
// resolves to a handler (even one that rejects the bare request) is not a 404.
func TestRegisterRoutes(t *testing.T) {
	ta := newTestApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/users/register"},
		{http.MethodPost, "/api/v1/users/login"},
		{http.MethodPost, "/api/v1/users/refresh-token"},
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodPost, "/api/v1/users/change-password"},
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodPatch, "/api/v1/users/update-account"},
		{http.MethodPatch, "/api/v1/users/update-avatar"},
		{http.MethodPatch, "/api/v1/users/update-cover-image"},
		{http.MethodGet, "/api/v1/users/channel/nova"},
		{http.MethodGet, "/api/v1/users/watch-history"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			resp, err := ta.app.Test(req)
			require.NoError(t, err)
			assert.NotEqual(t, fiber.StatusNotFound, resp.StatusCode)
			assert.NotEqual(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("accepts bearer header", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		accessToken, _, err := ta.tokens.Generate(user)
		require.NoError(t, err)

		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)

		resp, err := ta.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		accessToken, _, err := ta.tokens.Generate(user)
		require.NoError(t, err)

		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: accessToken})
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-even-a-token")

		resp, err := ta.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("every failure looks the same", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		accessToken, _, err := ta.tokens.Generate(user)
		require.NoError(t, err)

		// Subject behind an otherwise valid token is gone.
		ta.repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(nil, nil)

		cases := []struct {
			name    string
			prepare func(req *http.Request)
		}{
			{"no token at all", func(*http.Request) {}},
			{"garbage bearer token", func(req *http.Request) {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
			}},
			{"deleted subject", func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: accessToken})
			}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
				tc.prepare(req)

				resp, err := ta.app.Test(req)
				require.NoError(t, err)
				assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

				env := decodeEnvelope(t, resp)
				assert.False(t, env.Success)
				assert.Equal(t, "unauthorized request", env.Message)
			})
		}
	})

	t.Run("rejects refresh token used as access token", func(t *testing.T) {
		ta := newTestApp(t)

		user := &domain.User{ID: "64b9f3d2a1c2e3f4a5b6c7d8", Username: "nova"}
		_, refreshToken, err := ta.tokens.Generate(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.AddCookie(&http.Cookie{Name: constant.AccessTokenCookie, Value: refreshToken})

		resp, err := ta.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
