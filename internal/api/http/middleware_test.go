package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/observability"
)

func newTestApp(role domain.Role, withPrincipal bool) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	injectPrincipal := func(c *fiber.Ctx) error {
		if withPrincipal {
			auth.StorePrincipal(c, &auth.Principal{
				User: &domain.User{ID: "user-1", Role: role},
				Role: role,
			})
		}
		return c.Next()
	}

	admin := app.Group("/admin-only", injectPrincipal, auth.RequireRole(domain.RoleAdmin))
	admin.Get("", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func errorEnvelope(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var payload struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload.Error
}

func TestRoleDenialRendersForbidden(t *testing.T) {
	app := newTestApp(domain.RoleStudent, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin-only", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	envelope := errorEnvelope(t, resp.Body)
	assert.Equal(t, "FORBIDDEN", envelope["code"])
}

func TestMissingPrincipalRendersUnauthorized(t *testing.T) {
	app := newTestApp(domain.RoleStudent, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin-only", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	envelope := errorEnvelope(t, resp.Body)
	assert.Equal(t, "UNAUTHORIZED", envelope["code"])
}

func TestAllowedRolePassesThrough(t *testing.T) {
	app := newTestApp(domain.RoleAdmin, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin-only", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUnmatchedRouteRendersNotFound(t *testing.T) {
	app := newTestApp(domain.RoleAdmin, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	envelope := errorEnvelope(t, resp.Body)
	assert.Equal(t, "NOT_FOUND", envelope["code"])
}
