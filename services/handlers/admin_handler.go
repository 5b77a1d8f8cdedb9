package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
	"github.com/ColdByDefault/Portfolio-sub001/shared"
)

type AdminHandler struct {
	contactSvc   ContactServiceInterface
	chatSvc      ChatServiceInterface
	blogSvc      BlogServiceInterface
	blocklistSvc BlocklistServiceInterface
	mediaSvc     MediaServiceInterface
}

func NewAdminHandler(
	contactSvc ContactServiceInterface,
	chatSvc ChatServiceInterface,
	blogSvc BlogServiceInterface,
	blocklistSvc BlocklistServiceInterface,
	mediaSvc MediaServiceInterface,
) *AdminHandler {
	return &AdminHandler{
		contactSvc:   contactSvc,
		chatSvc:      chatSvc,
		blogSvc:      blogSvc,
		blocklistSvc: blocklistSvc,
		mediaSvc:     mediaSvc,
	}
}

// ==================== SUBMISSIONS ====================

// @Summary List contact submissions
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param outcome query string false "accepted or rejected"
// @Success 200 {object} shared.Response{data=dto.SubmissionListResponse}
// @Router /api/v1/admin/submissions [get]
func (h *AdminHandler) ListSubmissions(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	outcome := c.Query("outcome")
	if outcome != "" && outcome != "accepted" && outcome != "rejected" {
		return shared.NewValidationError("outcome must be accepted or rejected", nil)
	}

	resp, err := h.contactSvc.ListSubmissions(page, limit, outcome)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}

// @Summary List chat logs
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.ChatLogListResponse}
// @Router /api/v1/admin/chats [get]
func (h *AdminHandler) ListChatLogs(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	resp, err := h.chatSvc.ListLogs(page, limit)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}

// ==================== BLOCKLIST ====================

// @Summary List blocklist entries
// @Tags admin
// @Produce json
// @Success 200 {object} shared.Response{data=dto.BlocklistResponse}
// @Router /api/v1/admin/blocklist [get]
func (h *AdminHandler) ListBlocklist(c *fiber.Ctx) error {
	resp, err := h.blocklistSvc.List()
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}

// @Summary Block an IP or email
// @Tags admin
// @Accept json
// @Produce json
// @Param blockRequest body dto.BlockRequest true "Target to block"
// @Success 201 {object} shared.Response
// @Router /api/v1/admin/blocklist [post]
func (h *AdminHandler) Block(c *fiber.Ctx) error {
	var req dto.BlockRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	adminID, _ := c.Locals(shared.AdminID).(string)
	if err := h.blocklistSvc.Block(req.Target, req.Type, req.Reason, adminID); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "Target blocked", nil)
}

// @Summary Remove a blocklist entry
// @Tags admin
// @Accept json
// @Produce json
// @Param unblockRequest body dto.UnblockRequest true "Target to unblock"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/blocklist [delete]
func (h *AdminHandler) Unblock(c *fiber.Ctx) error {
	var req dto.UnblockRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if err := h.blocklistSvc.Unblock(req.Target, req.Type); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Target unblocked", nil)
}

// ==================== POSTS ====================

// @Summary List all posts including drafts
// @Tags admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.PostListResponse}
// @Router /api/v1/admin/posts [get]
func (h *AdminHandler) ListPosts(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	resp, err := h.blogSvc.ListPosts(page, limit, true)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}

// @Summary Get a post by id
// @Tags admin
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} shared.Response{data=dto.PostResponse}
// @Router /api/v1/admin/posts/{id} [get]
func (h *AdminHandler) GetPost(c *fiber.Ctx) error {
	resp, err := h.blogSvc.GetPost(c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "OK", resp)
}

// @Summary Create a post
// @Tags admin
// @Accept json
// @Produce json
// @Param createPostRequest body dto.CreatePostRequest true "Post fields"
// @Success 201 {object} shared.Response{data=dto.PostResponse}
// @Router /api/v1/admin/posts [post]
func (h *AdminHandler) CreatePost(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.blogSvc.CreatePost(&req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "Post created", resp)
}

// @Summary Update a post
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param updatePostRequest body dto.UpdatePostRequest true "Fields to change"
// @Success 200 {object} shared.Response{data=dto.PostResponse}
// @Router /api/v1/admin/posts/{id} [put]
func (h *AdminHandler) UpdatePost(c *fiber.Ctx) error {
	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewValidationError("invalid request body", nil)
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.blogSvc.UpdatePost(c.Params("id"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Post updated", resp)
}

// @Summary Delete a post
// @Tags admin
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/posts/{id} [delete]
func (h *AdminHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.blogSvc.DeletePost(c.Params("id")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Post deleted", nil)
}

// @Summary Upload a post cover image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Post id"
// @Param cover formData file true "Cover image"
// @Success 200 {object} shared.Response{data=dto.PostResponse}
// @Router /api/v1/admin/posts/{id}/cover [post]
func (h *AdminHandler) UploadCover(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("cover")
	if err != nil {
		return shared.NewValidationError("cover file is required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewValidationError("could not read cover file", nil)
	}
	defer file.Close()

	upload, err := h.mediaSvc.UploadPostCover(file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	resp, err := h.blogSvc.SetCover(c.Params("id"), upload.URL)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Cover uploaded", resp)
}
