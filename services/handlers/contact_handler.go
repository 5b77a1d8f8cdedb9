package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type ContactHandler struct {
	contactSvc ContactServiceInterface
}

func NewContactHandler(contactSvc ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// @Summary Submit a contact form message
// @Description Validate, classify and deliver a contact form submission
// @Tags contact
// @Accept json
// @Produce json
// @Param contactRequest body dto.ContactRequest true "Contact form fields"
// @Success 200 {object} shared.Response{data=dto.ContactResponse}
// @Router /api/v1/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.contactSvc.Submit(&req, clientIP(c), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Message received", resp)
}

func clientIP(c *fiber.Ctx) string {
	if ip, ok := c.Locals(shared.ClientIPKey).(string); ok && ip != "" {
		return ip
	}
	return c.IP()
}

func pageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
