package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

func gateApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return c.SendStatus(appErr.StatusCode)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Get("/probe", handler, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestBotFilter(t *testing.T) {
	gate := &GatekeeperMiddleware{}
	app := gateApp(gate.BotFilter())

	cases := []struct {
		name      string
		userAgent string
		status    int
	}{
		{"browser passes", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36", fiber.StatusOK},
		{"empty rejected", "", fiber.StatusForbidden},
		{"curl rejected", "curl/8.4.0", fiber.StatusForbidden},
		{"crawler rejected", "Googlebot/2.1 (+http://www.google.com/bot.html)", fiber.StatusForbidden},
		{"python client rejected", "python-requests/2.31.0", fiber.StatusForbidden},
		{"go client rejected", "Go-http-client/1.1", fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/probe", nil)
			if tc.userAgent != "" {
				req.Header.Set(fiber.HeaderUserAgent, tc.userAgent)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRefererCheck(t *testing.T) {
	gate := &GatekeeperMiddleware{
		allowedHosts: map[string]struct{}{"example.com": {}},
	}
	app := gateApp(gate.RefererCheck())

	cases := []struct {
		name    string
		referer string
		origin  string
		status  int
	}{
		{"allowed referer", "https://example.com/contact", "", fiber.StatusOK},
		{"allowed origin fallback", "", "https://example.com", fiber.StatusOK},
		{"foreign referer", "https://evil.test/page", "", fiber.StatusForbidden},
		{"no referer at all", "", "", fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/probe", nil)
			if tc.referer != "" {
				req.Header.Set(fiber.HeaderReferer, tc.referer)
			}
			if tc.origin != "" {
				req.Header.Set(fiber.HeaderOrigin, tc.origin)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRefererCheck_NoConfiguredHosts(t *testing.T) {
	gate := &GatekeeperMiddleware{allowedHosts: map[string]struct{}{}}
	app := gateApp(gate.RefererCheck())

	req := httptest.NewRequest("GET", "/probe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
