package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type stubContactService struct {
	submitErr  error
	gotReq     *dto.ContactRequest
	gotIP      string
	gotUA      string
	submitResp *dto.ContactResponse
}

func (s *stubContactService) Submit(req *dto.ContactRequest, ip, userAgent string) (*dto.ContactResponse, error) {
	s.gotReq = req
	s.gotIP = ip
	s.gotUA = userAgent
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.submitResp, nil
}

func (s *stubContactService) ListSubmissions(page, limit int, outcome string) (*dto.SubmissionListResponse, error) {
	return &dto.SubmissionListResponse{Page: page, Limit: limit}, nil
}

// testApp mirrors the production router setup: tagged service errors are
// mapped to their status code by the app-level error handler.
func testApp(h *ContactHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal server error", nil)
		},
	})
	app.Post("/api/v1/contact", h.Submit)
	return app
}

func contactBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Project inquiry",
		Message: "Hello, I would like to talk about a project.",
	})
	require.NoError(t, err)
	return body
}

func TestContactHandler_Submit(t *testing.T) {
	svc := &stubContactService{submitResp: &dto.ContactResponse{Reference: "42"}}
	app := testApp(NewContactHandler(svc))

	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(contactBody(t)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderUserAgent, "Mozilla/5.0")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, "jane@example.com", svc.gotReq.Email)
	assert.Equal(t, "Mozilla/5.0", svc.gotUA)
	assert.NotEmpty(t, svc.gotIP)
}

func TestContactHandler_Submit_InvalidBody(t *testing.T) {
	svc := &stubContactService{}
	app := testApp(NewContactHandler(svc))

	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader([]byte("{not json")))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, svc.gotReq, "service must not be called on a parse failure")
}

func TestContactHandler_Submit_MissingFields(t *testing.T) {
	svc := &stubContactService{}
	app := testApp(NewContactHandler(svc))

	body, err := json.Marshal(dto.ContactRequest{Name: "Jane Doe"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, svc.gotReq)
}

func TestContactHandler_Submit_PolicyRejection(t *testing.T) {
	svc := &stubContactService{submitErr: shared.NewPolicyError("submission rejected")}
	app := testApp(NewContactHandler(svc))

	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(contactBody(t)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestContactHandler_Submit_DeliveryFailure(t *testing.T) {
	svc := &stubContactService{submitErr: shared.NewDownstreamError("failed to deliver message", nil)}
	app := testApp(NewContactHandler(svc))

	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(contactBody(t)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestContactHandler_Submit_RateLimited(t *testing.T) {
	svc := &stubContactService{submitErr: shared.NewRateLimitedError("Too many submissions", 300)}
	app := testApp(NewContactHandler(svc))

	req := httptest.NewRequest("POST", "/api/v1/contact", bytes.NewReader(contactBody(t)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
