package services

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

func TestPing(t *testing.T) {
	svc := &HttpService{}

	app := fiber.New(fiber.Config{
		JSONEncoder: shared.JSONMarshal,
		JSONDecoder: shared.JSONUnmarshal,
	})
	app.Get("/ping", svc.ping)
	app.Get("/api/v1/ping", svc.ping)

	for _, path := range []string{"/ping", "/api/v1/ping"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "max-age=10", resp.Header.Get(fiber.HeaderCacheControl))

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var envelope shared.Response
		require.NoError(t, shared.JSONUnmarshal(raw, &envelope))
		assert.Equal(t, "pong", envelope.Data)
	}
}
