package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type ChatHandler struct {
	chatSvc ChatServiceInterface
}

func NewChatHandler(chatSvc ChatServiceInterface) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// @Summary Send a chat message
// @Description Forward a visitor message to the assistant and return the reply
// @Tags chat
// @Accept json
// @Produce json
// @Param chatRequest body dto.ChatRequest true "Chat message"
// @Success 200 {object} shared.Response{data=dto.ChatResponse}
// @Router /api/v1/chat [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", map[string]string{"code": shared.ChatErrInvalidInput})
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.chatSvc.Respond(c.UserContext(), &req, clientIP(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}
