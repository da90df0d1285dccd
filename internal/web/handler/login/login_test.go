package login

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/db/models"
	"github.com/eter-store/eter-admin/internal/web/handler"
	"github.com/eter-store/eter-admin/internal/web/handler/logout"
	"github.com/eter-store/eter-admin/internal/web/session"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:  "http://localhost",
			Port: 3000,
			Session: config.Session{
				ExpiryTime: time.Minute,
				CookieName: "session",
			},
		},
	}
}

func setup(t *testing.T) (*fiber.App, *session.Store, *auth.LocalProvider) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, auth.SeedRBAC(context.Background(), db))

	role, err := auth.NewService(db).RoleByName(context.Background(), models.RoleStaff)
	require.NoError(t, err)

	users := auth.NewLocalProvider(db)
	_, err = users.CreateUser(context.Background(), auth.NewUser{
		Username: "alice",
		Email:    "alice@eter.store",
		Password: "secret",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	cfg := newTestConfig()
	sessions := session.New(memory.New(), cfg.Webserver.Session.ExpiryTime)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	api := app.Group(handler.APIPrefix)
	New(cfg, users, sessions).Init(api)
	logout.New(cfg, sessions).Init(api)

	return app, sessions, users
}

func post(t *testing.T, app *fiber.App, path, body, cookie string) (int, map[string]any, []string) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if cookie != "" {
		req.Header.Set(fiber.HeaderCookie, "session="+cookie)
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)

	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out, resp.Header.Values(fiber.HeaderSetCookie)
}

func sessionID(t *testing.T, cookies []string) string {
	t.Helper()

	for _, c := range cookies {
		if value, ok := strings.CutPrefix(c, "session="); ok {
			id, _, _ := strings.Cut(value, ";")
			return id
		}
	}

	t.Fatal("no session cookie set")

	return ""
}

func TestLoginSuccessAndLogout(t *testing.T) {
	app, sessions, _ := setup(t)

	status, body, cookies := post(t, app, "/api/login", `{"username":"alice","password":"secret"}`, "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, body["success"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, models.RoleStaff, user["role"])

	id := sessionID(t, cookies)
	assert.Contains(t, strings.Join(cookies, ";"), "HttpOnly")

	data, err := sessions.Read(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", data.Username)

	status, body, _ = post(t, app, "/api/logout", "", id)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	_, err = sessions.Read(id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLoginFailures(t *testing.T) {
	app, _, users := setup(t)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
		before func()
	}{
		{name: "malformed", body: `{"username":`, status: fiber.StatusBadRequest, msg: ErrInvalidFormData.Error()},
		{name: "missing password", body: `{"username":"alice"}`, status: fiber.StatusBadRequest, msg: ErrInvalidFormData.Error()},
		{
			name: "wrong password", body: `{"username":"alice","password":"nope"}`,
			status: fiber.StatusUnauthorized, msg: ErrInvalidCredentials.Error(),
		},
		{
			name: "unknown user", body: `{"username":"bob","password":"secret"}`,
			status: fiber.StatusUnauthorized, msg: ErrInvalidCredentials.Error(),
		},
		{
			name: "disabled account", body: `{"username":"alice","password":"secret"}`,
			status: fiber.StatusUnauthorized, msg: ErrAccountDisabled.Error(),
			before: func() {
				u, err := users.GetUserByUsername(context.Background(), "alice")
				require.NoError(t, err)
				require.NoError(t, users.SetActive(context.Background(), u.ID, false))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.before != nil {
				tt.before()
			}

			status, body, cookies := post(t, app, "/api/login", tt.body, "")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, body["error"])
			assert.Empty(t, cookies)
		})
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	app, _, _ := setup(t)

	status, body, _ := post(t, app, "/api/logout", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
}
