package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type stubChatService struct {
	respondErr error
	gotReq     *dto.ChatRequest
	resp       *dto.ChatResponse
}

func (s *stubChatService) Respond(ctx context.Context, req *dto.ChatRequest, ip string) (*dto.ChatResponse, error) {
	s.gotReq = req
	if s.respondErr != nil {
		return nil, s.respondErr
	}
	return s.resp, nil
}

func (s *stubChatService) ListLogs(page, limit int) (*dto.ChatLogListResponse, error) {
	return &dto.ChatLogListResponse{}, nil
}

func chatApp(h *ChatHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal server error", nil)
		},
	})
	app.Post("/api/v1/chat", h.Send)
	return app
}

func postChat(t *testing.T, app *fiber.App, payload interface{}) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestChatHandler_Send(t *testing.T) {
	svc := &stubChatService{resp: &dto.ChatResponse{
		Reply:     "Hi there",
		SessionID: "9f2c7a34-4b1d-4f6e-9d2a-94be61f0a11b",
		Remaining: 18,
	}}
	app := chatApp(NewChatHandler(svc))

	status, raw := postChat(t, app, dto.ChatRequest{Message: "Hello"})
	assert.Equal(t, fiber.StatusOK, status)

	var envelope shared.Response
	require.NoError(t, json.Unmarshal(raw, &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Hi there", data["reply"])
	assert.Equal(t, float64(18), data["remaining"])

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, "Hello", svc.gotReq.Message)
}

func TestChatHandler_Send_EmptyMessage(t *testing.T) {
	svc := &stubChatService{}
	app := chatApp(NewChatHandler(svc))

	status, _ := postChat(t, app, dto.ChatRequest{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Nil(t, svc.gotReq)
}

func TestChatHandler_Send_MalformedSessionID(t *testing.T) {
	svc := &stubChatService{}
	app := chatApp(NewChatHandler(svc))

	status, _ := postChat(t, app, dto.ChatRequest{Message: "Hello", SessionID: "not-a-uuid"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Nil(t, svc.gotReq)
}

func TestChatHandler_Send_ServiceUnavailable(t *testing.T) {
	svc := &stubChatService{
		respondErr: shared.NewDownstreamError("chat service is not available",
			map[string]string{"code": shared.ChatErrServiceUnavailable}),
	}
	app := chatApp(NewChatHandler(svc))

	status, raw := postChat(t, app, dto.ChatRequest{Message: "Hello"})
	assert.Equal(t, fiber.StatusInternalServerError, status)

	var envelope shared.Response
	require.NoError(t, json.Unmarshal(raw, &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, shared.ChatErrServiceUnavailable, data["code"])
}
